// Package sequence holds the client-visible ordering of one list's items.
//
// The order of the slice is the source of truth for rendering. Position
// fields are rewritten from the slice index whenever a new order is
// applied, so a reconciled sequence always carries positions 0..n-1.
package sequence

import (
	"sort"

	"github.com/alexanderramin/listapp/internal/domain"
)

// Store owns the ordered items of a single list. It is not safe for
// concurrent use; the view that owns it mutates it from its event loop.
type Store struct {
	listID string
	items  []domain.Item
}

// New creates an empty store for the given list.
func New(listID string) *Store {
	return &Store{listID: listID}
}

// ListID returns the list this store belongs to.
func (s *Store) ListID() string { return s.listID }

// Load replaces the whole sequence with freshly fetched items. Items are
// sorted by their server position (ID breaks ties) and renumbered.
func (s *Store) Load(items []domain.Item) {
	sorted := clone(items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return sorted[i].ID < sorted[j].ID
	})
	s.items = renumber(sorted)
}

// Apply replaces the sequence with an already ordered slice.
func (s *Store) Apply(items []domain.Item) {
	s.items = renumber(clone(items))
}

// MoveItem returns the sequence that results from moving fromID into the
// slot currently held by toID. The store itself is not modified.
func (s *Store) MoveItem(fromID, toID string) []domain.Item {
	return clone(Move(s.items, fromID, toID))
}

// Items returns a copy of the current sequence.
func (s *Store) Items() []domain.Item {
	return clone(s.items)
}

// IDs returns the item identifiers in display order.
func (s *Store) IDs() []string {
	return IDs(s.items)
}

// Len returns the number of items.
func (s *Store) Len() int { return len(s.items) }

// IndexOf returns the index of id, or -1.
func (s *Store) IndexOf(id string) int {
	return indexOf(s.items, id)
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (domain.Item, bool) {
	i := indexOf(s.items, id)
	if i < 0 {
		return domain.Item{}, false
	}
	return s.items[i], true
}

// Append adds a newly created item at the end of the list.
func (s *Store) Append(item domain.Item) {
	item.Position = len(s.items)
	s.items = append(s.items, item)
}

// Remove deletes id and shifts every later item up one position.
// It reports whether the item was present.
func (s *Store) Remove(id string) bool {
	i := indexOf(s.items, id)
	if i < 0 {
		return false
	}
	next := make([]domain.Item, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	s.items = renumber(next)
	return true
}

// Replace swaps in an edited item, keeping its slot.
func (s *Store) Replace(item domain.Item) bool {
	i := indexOf(s.items, item.ID)
	if i < 0 {
		return false
	}
	item.Position = i
	s.items[i] = item
	return true
}

// Move removes fromID and reinserts it at the index currently occupied by
// toID, shifting the items in between by one. The input is returned
// unchanged when the ids are equal or either is absent.
func Move(items []domain.Item, fromID, toID string) []domain.Item {
	if fromID == toID {
		return items
	}
	from := indexOf(items, fromID)
	to := indexOf(items, toID)
	if from < 0 || to < 0 {
		return items
	}

	out := make([]domain.Item, 0, len(items))
	moved := items[from]
	rest := make([]domain.Item, 0, len(items)-1)
	rest = append(rest, items[:from]...)
	rest = append(rest, items[from+1:]...)

	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return renumber(out)
}

// IDs extracts identifiers in slice order.
func IDs(items []domain.Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func indexOf(items []domain.Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func clone(items []domain.Item) []domain.Item {
	if items == nil {
		return nil
	}
	out := make([]domain.Item, len(items))
	copy(out, items)
	return out
}

func renumber(items []domain.Item) []domain.Item {
	for i := range items {
		items[i].Position = i
	}
	return items
}
