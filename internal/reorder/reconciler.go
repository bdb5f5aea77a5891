// Package reorder applies reorder intents optimistically and reconciles
// them with the server.
//
// A reorder is a two-phase commit at the UI layer: Stage snapshots the
// current sequence and applies the new order locally, Commit sends the
// whole order to the server, and Settle either drops the snapshot or
// restores it. Exactly one reorder may be pending at a time.
package reorder

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/sequence"
)

// ErrReorderInFlight is returned by Stage while a previous reorder is
// still waiting for its server response.
var ErrReorderInFlight = errors.New("a reorder is already in progress")

// Gateway persists a full item order for a list.
type Gateway interface {
	Reorder(ctx context.Context, listID string, itemOrder []string) error
}

// Pending is a staged reorder waiting for the server.
type Pending struct {
	ListID   string
	Payload  []string
	snapshot []domain.Item
	applied  []domain.Item
}

// Reconciler drives reorders for a single list's sequence store.
type Reconciler struct {
	store    *sequence.Store
	gateway  Gateway
	notifier Notifier
	pending  *Pending
}

// New creates a Reconciler. A nil notifier discards notifications.
func New(store *sequence.Store, gateway Gateway, notifier Notifier) *Reconciler {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Reconciler{store: store, gateway: gateway, notifier: notifier}
}

// InFlight reports whether a staged reorder has not been settled yet.
func (r *Reconciler) InFlight() bool { return r.pending != nil }

// Stage computes the moved sequence, snapshots the current one and applies
// the new order locally. It returns false when the move is a no-op.
func (r *Reconciler) Stage(fromID, toID string) (*Pending, bool, error) {
	if r.pending != nil {
		return nil, false, ErrReorderInFlight
	}
	before := r.store.Items()
	next := r.store.MoveItem(fromID, toID)
	if sameOrder(before, next) {
		return nil, false, nil
	}

	r.store.Apply(next)
	p := &Pending{
		ListID:   r.store.ListID(),
		Payload:  sequence.IDs(next),
		snapshot: before,
		applied:  next,
	}
	r.pending = p
	return p, true, nil
}

// Commit sends the staged order to the server. It may run off the event
// loop; it does not touch the store.
func (r *Reconciler) Commit(ctx context.Context, p *Pending) error {
	if err := r.gateway.Reorder(ctx, p.ListID, p.Payload); err != nil {
		return fmt.Errorf("reordering items: %w", err)
	}
	return nil
}

// Settle completes a staged reorder. On error the sequence reverts to the
// order snapshotted for p and the user is notified once. Creates, deletes
// and edits applied to the store after Stage survive the revert.
func (r *Reconciler) Settle(p *Pending, err error) {
	if r.pending == p {
		r.pending = nil
	}
	if err == nil {
		return
	}
	r.store.Apply(rebase(p.snapshot, p.applied, r.store.Items()))
	r.notifier.Notify(Notification{
		Level:   LevelError,
		Kind:    domain.KindOf(err),
		Message: "Reorder failed: " + domain.UserMessage(err),
		Err:     err,
	})
}

// Reorder runs stage, commit and settle synchronously.
func (r *Reconciler) Reorder(ctx context.Context, fromID, toID string) error {
	p, ok, err := r.Stage(fromID, toID)
	if err != nil || !ok {
		return err
	}
	err = r.Commit(ctx, p)
	r.Settle(p, err)
	return err
}

// rebase restores the snapshot order over the current items. Items gone
// from current stay gone, items current holds that were not staged are
// kept at the end in their current order, and every kept item carries its
// current content.
func rebase(snapshot, applied, current []domain.Item) []domain.Item {
	now := make(map[string]domain.Item, len(current))
	for _, it := range current {
		now[it.ID] = it
	}
	staged := make(map[string]bool, len(applied))
	for _, it := range applied {
		staged[it.ID] = true
	}

	out := make([]domain.Item, 0, len(current))
	for _, it := range snapshot {
		if cur, ok := now[it.ID]; ok {
			out = append(out, cur)
		}
	}
	for _, it := range current {
		if !staged[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

func sameOrder(a, b []domain.Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
