package domain

import "time"

// List is a named, user-owned collection of ordered items.
type List struct {
	ID          string
	Title       string
	Description *string
	Items       []Item

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

// ListSummary is the lightweight list shape returned by the list index.
type ListSummary struct {
	ID          string
	Title       string
	Description *string
	ItemCount   int
}

// Item belongs to exactly one list. Positions within a list are a
// contiguous permutation of 0..n-1 once reconciled with the server.
type Item struct {
	ID        string
	Title     string
	Notes     *string
	ImagePath *string
	Position  int
}

// HasImage reports whether the item carries a non-blank image path.
func (i Item) HasImage() bool {
	return i.ImagePath != nil && trimmedLen(*i.ImagePath) > 0
}

// Summary derives the index shape from a fully loaded list.
func (l *List) Summary() ListSummary {
	return ListSummary{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		ItemCount:   len(l.Items),
	}
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
