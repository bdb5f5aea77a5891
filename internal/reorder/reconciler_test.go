package reorder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	calls [][]string
	lists []string
	err   error
}

func (g *fakeGateway) Reorder(_ context.Context, listID string, order []string) error {
	g.lists = append(g.lists, listID)
	g.calls = append(g.calls, append([]string(nil), order...))
	return g.err
}

func newStore(ids ...string) *sequence.Store {
	s := sequence.New("list-1")
	items := make([]domain.Item, len(ids))
	for i, id := range ids {
		items[i] = domain.Item{ID: id, Title: id, Position: i}
	}
	s.Load(items)
	return s
}

func TestReorder_SuccessSubmitsNewOrder(t *testing.T) {
	store := newStore("A", "B", "C")
	gw := &fakeGateway{}
	rec := &Recorder{}
	r := New(store, gw, rec)

	require.NoError(t, r.Reorder(context.Background(), "A", "C"))

	assert.Equal(t, []string{"B", "C", "A"}, store.IDs())
	require.Len(t, gw.calls, 1)
	assert.Equal(t, store.IDs(), gw.calls[0], "payload matches local order index-for-index")
	assert.Equal(t, []string{"list-1"}, gw.lists)
	assert.Zero(t, rec.Len())
	assert.False(t, r.InFlight())
}

func TestReorder_FailureRevertsAndNotifiesOnce(t *testing.T) {
	store := newStore("A", "B", "C")
	before := store.Items()
	gw := &fakeGateway{err: &domain.Error{Kind: domain.KindNetwork, Err: errors.New("connection refused")}}
	rec := &Recorder{}
	r := New(store, gw, rec)

	err := r.Reorder(context.Background(), "A", "C")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	require.Len(t, gw.calls, 1)
	assert.Equal(t, []string{"B", "C", "A"}, gw.calls[0])
	assert.Equal(t, before, store.Items(), "exact revert")
	require.Equal(t, 1, rec.Len())
	n := rec.All()[0]
	assert.Equal(t, LevelError, n.Level)
	assert.Equal(t, domain.KindNetwork, n.Kind)
	assert.Contains(t, n.Message, "Reorder failed")
}

func TestReorder_EveryErrorKindReverts(t *testing.T) {
	kinds := []domain.ErrorKind{
		domain.KindValidation, domain.KindNotFound, domain.KindConflict,
		domain.KindAuth, domain.KindNetwork,
	}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			store := newStore("A", "B", "C", "D")
			rec := &Recorder{}
			r := New(store, &fakeGateway{err: &domain.Error{Kind: kind}}, rec)

			_ = r.Reorder(context.Background(), "D", "A")

			assert.Equal(t, []string{"A", "B", "C", "D"}, store.IDs())
			assert.Equal(t, 1, rec.Len())
			assert.Equal(t, kind, rec.All()[0].Kind)
		})
	}
}

func TestStage_AppliesBeforeCommit(t *testing.T) {
	store := newStore("A", "B", "C")
	gw := &fakeGateway{}
	r := New(store, gw, nil)

	p, ok, err := r.Stage("A", "C")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []string{"B", "C", "A"}, store.IDs(), "optimistic order visible before the request")
	assert.Empty(t, gw.calls)
	assert.True(t, r.InFlight())
	assert.Equal(t, []string{"B", "C", "A"}, p.Payload)

	require.NoError(t, r.Commit(context.Background(), p))
	r.Settle(p, nil)
	assert.False(t, r.InFlight())
	assert.Equal(t, []string{"B", "C", "A"}, store.IDs())
}

func TestStage_NoOpMoves(t *testing.T) {
	store := newStore("A", "B")
	r := New(store, &fakeGateway{}, nil)

	_, ok, err := r.Stage("A", "A")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = r.Stage("A", "missing")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, r.InFlight())

	single := New(newStore("A"), &fakeGateway{}, nil)
	_, ok, _ = single.Stage("A", "A")
	assert.False(t, ok)
}

func TestStage_RefusesSecondWhilePending(t *testing.T) {
	store := newStore("A", "B", "C")
	r := New(store, &fakeGateway{}, nil)

	first, ok, err := r.Stage("A", "C")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = r.Stage("B", "A")
	assert.ErrorIs(t, err, ErrReorderInFlight)
	assert.False(t, ok)
	assert.Equal(t, []string{"B", "C", "A"}, store.IDs())

	r.Settle(first, nil)
	_, ok, err = r.Stage("B", "A")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestSettle_LateFailureRestoresItsOwnSnapshot(t *testing.T) {
	store := newStore("A", "B", "C")
	rec := &Recorder{}
	r := New(store, &fakeGateway{}, rec)

	first, _, _ := r.Stage("A", "C")
	r.Settle(first, nil)
	second, _, _ := r.Stage("B", "C")
	require.Equal(t, []string{"C", "A", "B"}, store.IDs())

	r.Settle(second, fmt.Errorf("wrapped: %w", &domain.Error{Kind: domain.KindConflict}))

	assert.Equal(t, []string{"B", "C", "A"}, store.IDs(), "reverts to the order before the second apply")
	assert.Equal(t, 1, rec.Len())
}

func TestSettle_FailureKeepsMutationsMadeWhilePending(t *testing.T) {
	failure := &domain.Error{Kind: domain.KindNotFound}

	t.Run("delete stays deleted", func(t *testing.T) {
		store := newStore("A", "B", "C")
		rec := &Recorder{}
		r := New(store, &fakeGateway{}, rec)

		p, _, _ := r.Stage("A", "C")
		require.Equal(t, []string{"B", "C", "A"}, p.Payload)
		require.True(t, store.Remove("B"))

		r.Settle(p, failure)

		assert.Equal(t, []string{"A", "C"}, store.IDs())
		assert.Equal(t, []int{0, 1}, positions(store.Items()))
		assert.Equal(t, 1, rec.Len())
	})

	t.Run("create is kept at the end", func(t *testing.T) {
		store := newStore("A", "B", "C")
		r := New(store, &fakeGateway{}, nil)

		p, _, _ := r.Stage("A", "C")
		store.Append(domain.Item{ID: "NEW", Title: "new"})

		r.Settle(p, &domain.Error{Kind: domain.KindNetwork})

		assert.Equal(t, []string{"A", "B", "C", "NEW"}, store.IDs())
	})

	t.Run("edit keeps its content", func(t *testing.T) {
		store := newStore("A", "B", "C")
		r := New(store, &fakeGateway{}, nil)

		p, _, _ := r.Stage("A", "C")
		require.True(t, store.Replace(domain.Item{ID: "B", Title: "Banana"}))

		r.Settle(p, failure)

		assert.Equal(t, []string{"A", "B", "C"}, store.IDs())
		b, ok := store.Get("B")
		require.True(t, ok)
		assert.Equal(t, "Banana", b.Title)
		assert.Equal(t, 1, b.Position)
	})
}

func positions(items []domain.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Position
	}
	return out
}
