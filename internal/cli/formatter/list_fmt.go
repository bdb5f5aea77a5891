package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/listapp/internal/domain"
)

// notesColumn caps the notes preview in item tables.
const notesColumn = 40

// FormatListIndex renders the user's lists as a table.
func FormatListIndex(lists []domain.ListSummary) string {
	if len(lists) == 0 {
		return Dim("No lists yet. Create one with `listapp lists create --title ...`.") + "\n"
	}
	rows := make([][]string, 0, len(lists))
	for i, l := range lists {
		rows = append(rows, []string{
			Dim(strconv.Itoa(i + 1)),
			StyleFg.Render(l.Title),
			StyleBlue.Render(strconv.Itoa(l.ItemCount)),
			Dim(ShortID(l.ID)),
		})
	}
	return RenderTable([]string{"#", "TITLE", "ITEMS", "ID"}, rows)
}

// FormatList renders a list and its items in position order. imageAllowed
// decides whether an item's image path is marked as a displayable image.
func FormatList(l *domain.List, imageAllowed func(domain.Item) bool) string {
	var b strings.Builder
	b.WriteString(Header(l.Title))
	b.WriteString("\n")
	if d := domain.Deref(l.Description); d != "" {
		b.WriteString(Dim(d))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(l.Items) == 0 {
		b.WriteString(Dim("No items."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(l.Items))
	for _, it := range l.Items {
		rows = append(rows, []string{
			Dim(strconv.Itoa(it.Position + 1)),
			StyleFg.Render(it.Title),
			Dim(Truncate(FirstLine(domain.Deref(it.Notes)), notesColumn)),
			ImageMarker(it, imageAllowed != nil && imageAllowed(it)),
			Dim(ShortID(it.ID)),
		})
	}
	b.WriteString(RenderTable([]string{"#", "TITLE", "NOTES", "IMAGE", "ID"}, rows))
	return b.String()
}

// ImageMarker is the short image indicator shown next to an item.
func ImageMarker(it domain.Item, allowed bool) string {
	switch {
	case !it.HasImage():
		return ""
	case allowed:
		return StyleGreen.Render("▣ image")
	default:
		return Dim("▢ link")
	}
}

// ImageSource renders an allowed image path for image mode rows, cut to
// width cells.
func ImageSource(it domain.Item, width int) string {
	return StyleGreen.Render("▣ ") + Truncate(strings.TrimSpace(domain.Deref(it.ImagePath)), max(width-2, 1))
}

// FormatItem renders the full item: title, notes as markdown and the image
// source. Paths that fail the image policy are shown as plain text only.
func FormatItem(it domain.Item, imageAllowed bool, width int) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(it.Title))
	b.WriteString("\n\n")

	if notes := domain.Deref(it.Notes); strings.TrimSpace(notes) != "" {
		b.WriteString(RenderNotes(notes, width))
	} else {
		b.WriteString(Dim("No notes."))
	}
	b.WriteString("\n\n")

	if it.HasImage() {
		src := domain.Deref(it.ImagePath)
		if imageAllowed {
			fmt.Fprintf(&b, "%s %s\n", StyleGreen.Render("Image"), StyleBlue.Render(src))
		} else {
			fmt.Fprintf(&b, "%s %s\n", Dim("Image path (not shown as image)"), src)
		}
	}
	return b.String()
}
