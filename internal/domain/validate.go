package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Field constraints enforced by the server.
const (
	TitleMaxLength       = 100
	NotesMaxLength       = 2000
	ImagePathMaxLength   = 1024
	DescriptionMaxLength = 2000
)

// ItemCreate is a validated create-item payload. Optional fields are nil
// when left blank and are omitted from the request.
type ItemCreate struct {
	Title     string
	Notes     *string
	ImagePath *string
}

// ItemPatch is an update-item payload; each field is omitted, null or set.
type ItemPatch struct {
	Title     Field[string]
	Notes     Field[string]
	ImagePath Field[string]
}

// Empty reports whether the patch would change nothing.
func (p ItemPatch) Empty() bool {
	return !p.Title.Present() && !p.Notes.Present() && !p.ImagePath.Present()
}

// ListCreate is a validated create-list payload.
type ListCreate struct {
	Title       string
	Description *string
}

// ListPatch is an update-list payload.
type ListPatch struct {
	Title       Field[string]
	Description Field[string]
}

// Empty reports whether the patch would change nothing.
func (p ListPatch) Empty() bool {
	return !p.Title.Present() && !p.Description.Present()
}

// NewItemCreate trims and validates raw form input.
func NewItemCreate(title, notes, imagePath string) (ItemCreate, error) {
	fields := map[string]string{}
	t := trim(title)
	checkTitle(fields, t)
	n := optional(notes)
	checkMax(fields, "notes", n, NotesMaxLength)
	p := optional(imagePath)
	checkMax(fields, "imagePath", p, ImagePathMaxLength)
	if len(fields) > 0 {
		return ItemCreate{}, NewValidationError(fields)
	}
	return ItemCreate{Title: t, Notes: n, ImagePath: p}, nil
}

// Validate checks the lengths carried by a patch. A title may be changed
// but never cleared.
func (p ItemPatch) Validate() error {
	fields := map[string]string{}
	if p.Title.IsNull() {
		fields["title"] = "must not be blank"
	} else if v, ok := p.Title.Value(); ok {
		checkTitle(fields, trim(v))
	}
	if v, ok := p.Notes.Value(); ok {
		checkMax(fields, "notes", &v, NotesMaxLength)
	}
	if v, ok := p.ImagePath.Value(); ok {
		checkMax(fields, "imagePath", &v, ImagePathMaxLength)
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// NewItemPatch diffs edited form input against the item being edited.
func NewItemPatch(initial Item, title, notes, imagePath string) (ItemPatch, error) {
	var patch ItemPatch
	t := trim(title)
	if t != initial.Title {
		patch.Title = Set(t)
	}
	patch.Notes = DiffOptional(initial.Notes, notes)
	patch.ImagePath = DiffOptional(initial.ImagePath, imagePath)
	if t == "" {
		patch.Title = Null[string]()
	}
	if err := patch.Validate(); err != nil {
		return ItemPatch{}, err
	}
	return patch, nil
}

// NewListCreate trims and validates raw form input.
func NewListCreate(title, description string) (ListCreate, error) {
	fields := map[string]string{}
	t := trim(title)
	checkTitle(fields, t)
	d := optional(description)
	checkMax(fields, "description", d, DescriptionMaxLength)
	if len(fields) > 0 {
		return ListCreate{}, NewValidationError(fields)
	}
	return ListCreate{Title: t, Description: d}, nil
}

// NewListPatch diffs edited form input against the list being edited.
func NewListPatch(initial ListSummary, title, description string) (ListPatch, error) {
	var patch ListPatch
	fields := map[string]string{}
	t := trim(title)
	checkTitle(fields, t)
	if t != initial.Title {
		patch.Title = Set(t)
	}
	patch.Description = DiffOptional(initial.Description, description)
	if v, ok := patch.Description.Value(); ok {
		checkMax(fields, "description", &v, DescriptionMaxLength)
	}
	if len(fields) > 0 {
		return ListPatch{}, NewValidationError(fields)
	}
	return patch, nil
}

func checkTitle(fields map[string]string, t string) {
	switch n := utf8.RuneCountInString(t); {
	case n == 0:
		fields["title"] = "must not be blank"
	case n > TitleMaxLength:
		fields["title"] = fmt.Sprintf("must be at most %d characters", TitleMaxLength)
	}
}

func checkMax(fields map[string]string, name string, v *string, max int) {
	if v != nil && utf8.RuneCountInString(*v) > max {
		fields[name] = fmt.Sprintf("must be at most %d characters", max)
	}
}

func optional(s string) *string {
	t := trim(s)
	if t == "" {
		return nil
	}
	return &t
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func trimmedLen(s string) int {
	return len(trim(s))
}
