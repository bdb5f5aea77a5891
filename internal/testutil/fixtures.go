package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/google/uuid"
)

// List options
type ListOption func(*domain.List)

func WithDescription(d string) ListOption {
	return func(l *domain.List) {
		l.Description = &d
	}
}

func WithListID(id string) ListOption {
	return func(l *domain.List) {
		l.ID = id
	}
}

// WithItems appends items in order, assigning positions from their index.
func WithItems(items ...domain.Item) ListOption {
	return func(l *domain.List) {
		for _, it := range items {
			it.Position = len(l.Items)
			l.Items = append(l.Items, it)
		}
	}
}

// WithItemTitles appends one item per title with generated IDs.
func WithItemTitles(titles ...string) ListOption {
	return func(l *domain.List) {
		for _, title := range titles {
			l.Items = append(l.Items, NewTestItem(title, WithPosition(len(l.Items))))
		}
	}
}

func NewTestList(title string, opts ...ListOption) *domain.List {
	now := time.Now().UTC().Truncate(time.Second)
	l := &domain.List{
		ID:        uuid.New().String(),
		Title:     title,
		Items:     []domain.Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Item options
type ItemOption func(*domain.Item)

func WithItemID(id string) ItemOption {
	return func(it *domain.Item) {
		it.ID = id
	}
}

func WithNotes(n string) ItemOption {
	return func(it *domain.Item) {
		it.Notes = &n
	}
}

func WithImagePath(p string) ItemOption {
	return func(it *domain.Item) {
		it.ImagePath = &p
	}
}

func WithPosition(p int) ItemOption {
	return func(it *domain.Item) {
		it.Position = p
	}
}

func NewTestItem(title string, opts ...ItemOption) domain.Item {
	it := domain.Item{
		ID:    uuid.New().String(),
		Title: title,
	}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

// Letters returns items with IDs and titles "A", "B", ... at positions 0..n-1.
func Letters(n int) []domain.Item {
	items := make([]domain.Item, n)
	for i := range items {
		id := fmt.Sprintf("%c", 'A'+i)
		items[i] = domain.Item{ID: id, Title: id, Position: i}
	}
	return items
}
