package cli

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/listapp/internal/cli/formatter"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// huhTheme styles huh forms with the formatter palette.
func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	accent := lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	fg := lipgloss.NewStyle().Foreground(formatter.ColorFg)
	dim := lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Focused.Title = accent.Bold(true)
	t.Focused.Description = dim
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.FocusedButton = fg.Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = dim.Padding(0, 1)
	t.Focused.TextInput.Cursor = accent
	t.Focused.TextInput.Prompt = accent
	t.Focused.TextInput.Text = fg
	t.Focused.TextInput.Placeholder = dim

	t.Blurred.Title = dim
	t.Blurred.TextInput.Prompt = dim
	t.Blurred.TextInput.Text = dim

	return t
}

// itemFormValues holds the raw form input. The service diffs it against
// the item being edited, so a cleared field becomes an explicit null.
type itemFormValues struct {
	Title     string
	Notes     string
	ImagePath string
}

func itemValuesFrom(it domain.Item) *itemFormValues {
	return &itemFormValues{
		Title:     it.Title,
		Notes:     domain.Deref(it.Notes),
		ImagePath: domain.Deref(it.ImagePath),
	}
}

func itemForm(values *itemFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&values.Title).
				CharLimit(domain.TitleMaxLength).
				Validate(validateTitle),
			huh.NewText().
				Title("Notes").
				Description("Markdown. Leave blank for none.").
				Value(&values.Notes).
				Validate(maxLength(domain.NotesMaxLength)),
			huh.NewInput().
				Title("Image URL").
				Placeholder("https://...").
				Value(&values.ImagePath).
				Validate(maxLength(domain.ImagePathMaxLength)),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}

type listFormValues struct {
	Title       string
	Description string
}

func listValuesFrom(l domain.ListSummary) *listFormValues {
	return &listFormValues{Title: l.Title, Description: domain.Deref(l.Description)}
}

func listForm(values *listFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&values.Title).
				CharLimit(domain.TitleMaxLength).
				Validate(validateTitle),
			huh.NewText().
				Title("Description").
				Value(&values.Description).
				Validate(maxLength(domain.DescriptionMaxLength)),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}

// confirmForm asks a yes/no question. y accepts, n rejects.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title is required")
	}
	return maxLength(domain.TitleMaxLength)(s)
}

func maxLength(n int) func(string) error {
	return func(s string) error {
		if utf8.RuneCountInString(strings.TrimSpace(s)) > n {
			return fmt.Errorf("at most %d characters", n)
		}
		return nil
	}
}
