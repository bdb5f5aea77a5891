package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/alexanderramin/listapp/internal/api"
	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/repository"
	"github.com/alexanderramin/listapp/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_UpdateSendsChangedFields(t *testing.T) {
	gw := testutil.NewFakeGateway()
	svc := NewProfileService(gw, nil)
	ctx := context.Background()

	initial, err := svc.Get(ctx)
	require.NoError(t, err)

	u, changed, err := svc.Update(ctx, initial, " Ada ", initial.Email)

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, initial.Email, u.Email)
	calls := gw.CallsTo("UpdateUser")
	require.Len(t, calls, 1)
	patch := calls[0].Body.(domain.UserPatch)
	assert.True(t, patch.Name.Present())
	assert.False(t, patch.Email.Present())
}

func TestProfileService_UnchangedSendsNothing(t *testing.T) {
	gw := testutil.NewFakeGateway()
	svc := NewProfileService(gw, nil)

	u, changed, err := svc.Update(context.Background(), gw.User, gw.User.Name, "")

	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, gw.User, u)
	assert.Empty(t, gw.CallsTo("UpdateUser"))
}

func TestProfileService_InvalidEmailRejectedBeforeRequest(t *testing.T) {
	gw := testutil.NewFakeGateway()
	svc := NewProfileService(gw, nil)

	_, _, err := svc.Update(context.Background(), gw.User, "", "nobody")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, gw.CallsTo("UpdateUser"))
}

func TestProfileService_DeleteClearsCache(t *testing.T) {
	ctx := context.Background()
	l := testutil.NewTestList("L", testutil.WithItemTitles("a"))
	gw := testutil.NewFakeGateway(l)
	cache := testutil.NewTestCache(t)
	require.NoError(t, cache.ReplaceList(ctx, l))
	svc := NewProfileService(gw, cache)

	require.NoError(t, svc.Delete(ctx))

	_, err := cache.GetList(ctx, l.ID)
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
	_, err = svc.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrAuth)
}

func TestProfileService_FailedDeleteKeepsCache(t *testing.T) {
	ctx := context.Background()
	l := testutil.NewTestList("L")
	gw := testutil.NewFakeGateway(l)
	cache := testutil.NewTestCache(t)
	require.NoError(t, cache.ReplaceList(ctx, l))
	gw.FailNext("DeleteUser", errOffline)
	svc := NewProfileService(gw, cache)

	err := svc.Delete(ctx)

	assert.ErrorIs(t, err, domain.ErrNetwork)
	_, err = cache.GetList(ctx, l.ID)
	assert.NoError(t, err)
}

func TestE2E_ProfileOverHTTP(t *testing.T) {
	ctx := context.Background()
	gw := testutil.NewFakeGateway()
	srv := testutil.NewFakeServer(t, gw)
	client, err := api.NewClient(api.Config{BaseURL: srv.URL, MaxRetries: 0}, nil, nil)
	require.NoError(t, err)
	client.SetCookie(&http.Cookie{Name: testutil.SessionCookie, Value: testutil.SessionValue, Path: "/"})
	svc := NewProfileService(client, nil)

	initial, err := svc.Get(ctx)
	require.NoError(t, err)
	_, changed, err := svc.Update(ctx, initial, "", "ada@lovelace.dev")
	require.NoError(t, err)
	require.True(t, changed)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada@lovelace.dev", got.Email)
	assert.Equal(t, initial.Name, got.Name)

	require.NoError(t, svc.Delete(ctx))
	_, err = svc.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrAuth)
}
