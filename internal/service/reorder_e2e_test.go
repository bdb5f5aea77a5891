package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/alexanderramin/listapp/internal/api"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/reorder"
	"github.com/alexanderramin/listapp/internal/sequence"
	"github.com/alexanderramin/listapp/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHTTPStack(t *testing.T, lists ...*domain.List) (*testutil.FakeGateway, ListService, ItemService) {
	t.Helper()
	gw := testutil.NewFakeGateway(lists...)
	srv := testutil.NewFakeServer(t, gw)
	client, err := api.NewClient(api.Config{BaseURL: srv.URL, MaxRetries: 0}, nil, nil)
	require.NoError(t, err)
	client.SetCookie(&http.Cookie{Name: testutil.SessionCookie, Value: testutil.SessionValue, Path: "/"})
	cache := testutil.NewTestCache(t)
	return gw, NewListService(client, cache), NewItemService(client, cache)
}

func TestE2E_DragReorderPersistsOverHTTP(t *testing.T) {
	ctx := context.Background()
	l := testutil.NewTestList("L", testutil.WithItems(testutil.Letters(3)...))
	gw, lists, items := newHTTPStack(t, l)

	view, err := lists.Get(ctx, l.ID)
	require.NoError(t, err)
	store := sequence.New(l.ID)
	store.Load(view.List.Items)
	require.Equal(t, []string{"A", "B", "C"}, store.IDs())

	rec := &reorder.Recorder{}
	r := reorder.New(store, items, rec)
	require.NoError(t, r.Reorder(ctx, "A", "C"))

	assert.Equal(t, []string{"B", "C", "A"}, store.IDs())
	assert.Equal(t, []string{"B", "C", "A"}, gw.CallsTo("Reorder")[0].Order)
	assert.Zero(t, rec.Len())

	again, err := lists.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, sequence.IDs(again.List.Items))
}

func TestE2E_RejectedReorderRevertsOnce(t *testing.T) {
	ctx := context.Background()
	l := testutil.NewTestList("L", testutil.WithItems(testutil.Letters(3)...))
	gw, lists, items := newHTTPStack(t, l)
	gw.FailNext("Reorder", &domain.Error{Kind: domain.KindConflict, Message: "stale order"})

	view, err := lists.Get(ctx, l.ID)
	require.NoError(t, err)
	store := sequence.New(l.ID)
	store.Load(view.List.Items)
	before := store.Items()

	rec := &reorder.Recorder{}
	err = reorder.New(store, items, rec).Reorder(ctx, "A", "C")

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, before, store.Items())
	require.Equal(t, 1, rec.Len())
	assert.Equal(t, domain.KindConflict, rec.All()[0].Kind)
}

func TestE2E_ClearingNotesSendsNull(t *testing.T) {
	ctx := context.Background()
	item := testutil.NewTestItem("Milk", testutil.WithNotes("hello"), testutil.WithImagePath("https://x.example.com/m.png"))
	l := testutil.NewTestList("L", testutil.WithItems(item))
	gw, _, items := newHTTPStack(t, l)

	_, changed, err := items.Update(ctx, l.ID, l.Items[0], "Milk", "", "https://x.example.com/m.png")
	require.NoError(t, err)
	require.True(t, changed)

	// The fake server decodes the raw JSON body, so a null here proves the
	// wire carried "notes": null rather than omitting the key.
	patch := gw.CallsTo("UpdateItem")[0].Body.(domain.ItemPatch)
	assert.True(t, patch.Notes.IsNull())
	assert.False(t, patch.Title.Present())
	assert.False(t, patch.ImagePath.Present())

	stored, _ := gw.Stored(l.ID)
	assert.Nil(t, stored.Items[0].Notes)
	assert.Equal(t, "https://x.example.com/m.png", domain.Deref(stored.Items[0].ImagePath))
}

func TestE2E_ExpiredSessionIsAuthError(t *testing.T) {
	gw := testutil.NewFakeGateway()
	srv := testutil.NewFakeServer(t, gw)
	client, err := api.NewClient(api.Config{BaseURL: srv.URL}, nil, nil)
	require.NoError(t, err)

	_, err = NewListService(client, nil).List(context.Background())

	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.Contains(t, domain.UserMessage(err), "listapp login")
}

func TestE2E_CreateAndDeleteItem(t *testing.T) {
	ctx := context.Background()
	l := testutil.NewTestList("L", testutil.WithItems(testutil.Letters(2)...))
	gw, lists, items := newHTTPStack(t, l)

	created, err := items.Create(ctx, l.ID, "Cheese", "aged", "")
	require.NoError(t, err)
	require.NoError(t, items.Delete(ctx, l.ID, "A"))

	view, err := lists.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", created.ID}, sequence.IDs(view.List.Items))
	assert.Equal(t, 0, view.List.Items[0].Position)
	assert.Equal(t, 1, view.List.Items[1].Position)
	assert.Len(t, gw.CallsTo("DeleteItem"), 1)
}
