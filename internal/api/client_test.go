package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCall(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: url, TimeoutMs: 2000, MaxRetries: 1}, nil, NoopObserver{})
	require.NoError(t, err)
	return c
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "localhost"}, nil, nil)
	assert.Error(t, err)
}

func TestReorder_SendsOrderWithCSRFHeader(t *testing.T) {
	var gotOrder []string
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "tok-123", Path: "/"})
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/user":
			json.NewEncoder(w).Encode(userDTO{ID: "u1"})
		case r.Method == http.MethodPatch && r.URL.Path == "/api/v1/lists/l1/items/order":
			gotHeader = r.Header.Get("X-XSRF-TOKEN")
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body reorderDTO
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gotOrder = body.ItemOrder
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Reorder(context.Background(), "l1", []string{"B", "C", "A"})

	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, gotOrder)
	assert.Equal(t, "tok-123", gotHeader)
}

func TestReorder_EmptyOrderNotSent(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	require.NoError(t, newTestClient(t, srv.URL).Reorder(context.Background(), "l1", nil))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestUpdateItem_ClearedNotesSentAsNull(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "t", Path: "/"})
		if r.Method == http.MethodPatch {
			assert.Equal(t, "/api/v1/lists/l1/items/i1", r.URL.Path)
			body = decodeBody(t, r)
			json.NewEncoder(w).Encode("i1")
		}
	}))
	defer srv.Close()

	initial := domain.Item{ID: "i1", Title: "Milk", Notes: domain.StrPtr("hello")}
	patch, err := domain.NewItemPatch(initial, "Milk", "", "")
	require.NoError(t, err)

	require.NoError(t, newTestClient(t, srv.URL).UpdateItem(context.Background(), "l1", "i1", patch))

	notes, ok := body["notes"]
	assert.True(t, ok, "notes key present")
	assert.Nil(t, notes)
	assert.NotContains(t, body, "title")
	assert.NotContains(t, body, "imagePath")
}

func TestUpdateUser_SendsOnlyChangedFields(t *testing.T) {
	var body map[string]any
	var csrf string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "t", Path: "/"})
		if r.Method == http.MethodPatch {
			assert.Equal(t, "/api/v1/user", r.URL.Path)
			csrf = r.Header.Get("X-XSRF-TOKEN")
			body = decodeBody(t, r)
			json.NewEncoder(w).Encode("u1")
		}
	}))
	defer srv.Close()

	patch, err := domain.NewUserPatch(domain.User{Name: "Ada", Email: "ada@example.com"}, "Ada", "ada@lovelace.dev")
	require.NoError(t, err)

	require.NoError(t, newTestClient(t, srv.URL).UpdateUser(context.Background(), patch))

	assert.Equal(t, map[string]any{"email": "ada@lovelace.dev"}, body)
	assert.Equal(t, "t", csrf)
}

func TestDeleteUser(t *testing.T) {
	var deleted int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "t", Path: "/"})
		if r.Method == http.MethodDelete && r.URL.Path == "/api/v1/user" {
			atomic.AddInt32(&deleted, 1)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	require.NoError(t, newTestClient(t, srv.URL).DeleteUser(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&deleted))
}

func TestGetUser_DecodesTimestamps(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(userDTO{ID: "u1", Name: "Ada", Email: "ada@example.com", CreatedAt: created, UpdatedAt: created})
	}))
	defer srv.Close()

	u, err := newTestClient(t, srv.URL).GetUser(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.True(t, created.Equal(u.CreatedAt))
}

func TestCreateItem_ReturnsIDAndOmitsBlankFields(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			body = decodeBody(t, r)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode("new-id")
		}
	}))
	defer srv.Close()

	in, err := domain.NewItemCreate("  Eggs ", "", "")
	require.NoError(t, err)

	id, err := newTestClient(t, srv.URL).CreateItem(context.Background(), "l1", in)

	require.NoError(t, err)
	assert.Equal(t, "new-id", id)
	assert.Equal(t, map[string]any{"title": "Eggs"}, body)
}

func TestListLists_CountsItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"l1","title":"Groceries","items":[{"id":"a","title":"A","position":0},{"id":"b","title":"B","position":1}]},
			{"id":"l2","title":"Books","description":"to read","itemCount":7}
		]`))
	}))
	defer srv.Close()

	lists, err := newTestClient(t, srv.URL).ListLists(context.Background())

	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, 2, lists[0].ItemCount)
	assert.Nil(t, lists[0].Description)
	assert.Equal(t, 7, lists[1].ItemCount)
	assert.Equal(t, "to read", domain.Deref(lists[1].Description))
}

func TestGetList_DecodesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/lists/l1", r.URL.Path)
		w.Write([]byte(`{"id":"l1","title":"T","version":3,"createdAt":"2024-05-01T10:00:00Z",
			"items":[{"id":"b","title":"B","position":1,"notes":null},{"id":"a","title":"A","position":0,"imagePath":"https://x/a.png"}]}`))
	}))
	defer srv.Close()

	l, err := newTestClient(t, srv.URL).GetList(context.Background(), "l1")

	require.NoError(t, err)
	assert.Equal(t, int64(3), l.Version)
	assert.Equal(t, 2024, l.CreatedAt.Year())
	require.Len(t, l.Items, 2)
	assert.Equal(t, "https://x/a.png", domain.Deref(l.Items[1].ImagePath))
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, domain.ErrValidation},
		{http.StatusUnprocessableEntity, domain.ErrValidation},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrConflict},
		{http.StatusPreconditionFailed, domain.ErrConflict},
		{http.StatusUnauthorized, domain.ErrAuth},
		{http.StatusForbidden, domain.ErrAuth},
		{http.StatusInternalServerError, domain.ErrNetwork},
		{http.StatusBadGateway, domain.ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := newTestClient(t, srv.URL).DeleteItem(context.Background(), "l1", "i1")

			assert.ErrorIs(t, err, tt.want)
			var de *domain.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.status, de.Status)
		})
	}
}

func TestValidationErrorCarriesFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":400,"error":"Bad Request","message":"Validation failed","errorCode":"VALIDATION_ERROR",
			"validationErrors":{"title":"must not be blank"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).CreateList(context.Background(), domain.ListCreate{Title: "x"})

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindValidation, de.Kind)
	assert.Equal(t, "Validation failed", de.Message)
	assert.Equal(t, map[string]string{"title": "must not be blank"}, de.Fields)
}

func TestGetRetriesOnServerError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(userDTO{ID: "u1", Name: "Ada"})
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c, err := NewClient(Config{BaseURL: srv.URL, MaxRetries: 1}, nil, obs)
	require.NoError(t, err)

	u, err := c.GetUser(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	require.Len(t, obs.events, 1)
	assert.Equal(t, 2, obs.events[0].Attempts)
	assert.Equal(t, http.StatusOK, obs.events[0].Status)
}

func TestMutationsAreNotRetried(t *testing.T) {
	var posts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: "t", Path: "/"})
		if r.Method == http.MethodPost {
			atomic.AddInt32(&posts, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, MaxRetries: 3}, nil, nil)
	require.NoError(t, err)

	_, err = c.CreateList(context.Background(), domain.ListCreate{Title: "x"})

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, "Server error (Internal Server Error)", domain.UserMessage(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&posts))
}

func TestNotFoundIsNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).GetList(context.Background(), "gone")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestUnavailableServerIsNetworkError(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1", MaxRetries: 0}, nil, nil)
	require.NoError(t, err)

	_, err = c.GetUser(context.Background())

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, domain.UserMessage(err), "Could not reach the server")
}

func TestTimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, TimeoutMs: 50}, nil, nil)
	require.NoError(t, err)

	_, err = c.GetUser(context.Background())

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindNetwork, de.Kind)
	assert.Equal(t, "request timed out", de.Message)
}

func TestSessionCookieIsSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("JSESSIONID")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "abc", ck.Value)
		json.NewEncoder(w).Encode(userDTO{ID: "u1"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetUser(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuth)

	c.SetCookie(&http.Cookie{Name: "JSESSIONID", Value: "abc", Path: "/"})
	u, err := c.GetUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}
