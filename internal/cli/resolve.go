package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/google/uuid"
)

// resolveListID resolves a list reference which can be:
//   - A full UUID (passed through without a lookup)
//   - A 1-based index into `lists ls`
//   - An ID prefix or a case-insensitive title
func resolveListID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("list ID is required")
	}
	if _, err := uuid.Parse(input); err == nil {
		return input, nil
	}

	index, err := app.Lists.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(index.Lists))
	titles := make([]string, len(index.Lists))
	for i, l := range index.Lists {
		ids[i], titles[i] = l.ID, l.Title
	}
	return match("list", input, ids, titles)
}

// resolveItemID resolves an item reference within a loaded list: a full
// ID, a 1-based position, an ID prefix or a case-insensitive title.
func resolveItemID(l *domain.List, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("item ID is required")
	}
	ids := make([]string, len(l.Items))
	titles := make([]string, len(l.Items))
	for i, it := range l.Items {
		if it.ID == input {
			return it.ID, nil
		}
		ids[i], titles[i] = it.ID, it.Title
	}
	return match("item", input, ids, titles)
}

func match(kind, input string, ids, titles []string) (string, error) {
	// 1. Exact ID.
	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	// 2. 1-based index, as printed by the table commands.
	if n, err := strconv.Atoi(strings.TrimPrefix(input, "#")); err == nil {
		if n < 1 || n > len(ids) {
			return "", fmt.Errorf("%s #%d out of range (1-%d)", kind, n, len(ids))
		}
		return ids[n-1], nil
	}

	// 3. Title, then ID prefix.
	var matches []string
	for i, t := range titles {
		if strings.EqualFold(t, input) {
			matches = append(matches, ids[i])
		}
	}
	if len(matches) == 0 {
		for _, id := range ids {
			if strings.HasPrefix(id, input) {
				matches = append(matches, id)
			}
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}
