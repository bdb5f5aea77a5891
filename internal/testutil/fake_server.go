package testutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/gorilla/mux"
)

const (
	// SessionCookie is the cookie the fake server accepts as a login.
	SessionCookie = "JSESSIONID"
	// SessionValue is the session value the fake server accepts.
	SessionValue = "test-session"
	csrfToken    = "test-csrf-token"
)

// FakeServer serves the listapp REST contract over HTTP from a FakeGateway.
// It enforces the session cookie and the CSRF double-submit header so the
// real HTTP client can be exercised end to end.
type FakeServer struct {
	*httptest.Server
	Gateway *FakeGateway
}

// NewFakeServer starts a server backed by gw. It is closed when the test
// completes.
func NewFakeServer(t *testing.T, gw *FakeGateway) *FakeServer {
	t.Helper()
	fs := &FakeServer{Gateway: gw}
	fs.Server = httptest.NewServer(fs.router())
	t.Cleanup(fs.Close)
	return fs
}

func (fs *FakeServer) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(fs.csrfBootstrap, fs.requireSession)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/user", fs.getUser).Methods(http.MethodGet)
	api.HandleFunc("/user", fs.updateUser).Methods(http.MethodPatch)
	api.HandleFunc("/user", fs.deleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/lists", fs.listLists).Methods(http.MethodGet)
	api.HandleFunc("/lists", fs.createList).Methods(http.MethodPost)
	api.HandleFunc("/lists/{listId}", fs.getList).Methods(http.MethodGet)
	api.HandleFunc("/lists/{listId}", fs.updateList).Methods(http.MethodPatch)
	api.HandleFunc("/lists/{listId}", fs.deleteList).Methods(http.MethodDelete)
	api.HandleFunc("/lists/{listId}/items", fs.createItem).Methods(http.MethodPost)
	api.HandleFunc("/lists/{listId}/items/order", fs.reorder).Methods(http.MethodPatch)
	api.HandleFunc("/lists/{listId}/items/{id}", fs.updateItem).Methods(http.MethodPatch)
	api.HandleFunc("/lists/{listId}/items/{id}", fs.deleteItem).Methods(http.MethodDelete)
	return r
}

// csrfBootstrap issues the CSRF cookie on every response.
func (fs *FakeServer) csrfBootstrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "XSRF-TOKEN", Value: csrfToken, Path: "/"})
		next.ServeHTTP(w, r)
	})
}

func (fs *FakeServer) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(SessionCookie)
		if err != nil || ck.Value != SessionValue {
			writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		if r.Method != http.MethodGet && r.Header.Get("X-XSRF-TOKEN") != csrfToken {
			writeError(w, http.StatusForbidden, "Invalid CSRF token", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type listJSON struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Version     int64      `json:"version"`
	Items       []itemJSON `json:"items"`
}

type itemJSON struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Notes     *string `json:"notes"`
	ImagePath *string `json:"imagePath"`
	Position  int     `json:"position"`
}

func toListJSON(l *domain.List) listJSON {
	out := listJSON{
		ID: l.ID, Title: l.Title, Description: l.Description,
		CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt, Version: l.Version,
		Items: make([]itemJSON, 0, len(l.Items)),
	}
	// Reverse the order so clients cannot rely on the wire order.
	for i := len(l.Items) - 1; i >= 0; i-- {
		it := l.Items[i]
		out.Items = append(out.Items, itemJSON{ID: it.ID, Title: it.Title, Notes: it.Notes, ImagePath: it.ImagePath, Position: it.Position})
	}
	return out
}

func (fs *FakeServer) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := fs.Gateway.GetUser(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id": u.ID, "name": u.Name, "email": u.Email,
		"createdAt": u.CreatedAt, "updatedAt": u.UpdatedAt,
	})
}

func (fs *FakeServer) updateUser(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if !decode(w, r, &raw) {
		return
	}
	p := domain.UserPatch{Name: field(raw, "name"), Email: field(raw, "email")}
	if err := fs.Gateway.UpdateUser(r.Context(), p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fs.Gateway.CurrentUser().ID)
}

func (fs *FakeServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := fs.Gateway.DeleteUser(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (fs *FakeServer) listLists(w http.ResponseWriter, r *http.Request) {
	summaries, err := fs.Gateway.ListLists(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]listJSON, 0, len(summaries))
	for _, s := range summaries {
		l, _ := fs.Gateway.Stored(s.ID)
		out = append(out, toListJSON(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (fs *FakeServer) getList(w http.ResponseWriter, r *http.Request) {
	l, err := fs.Gateway.GetList(r.Context(), mux.Vars(r)["listId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListJSON(l))
}

func (fs *FakeServer) createList(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	if !decode(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		writeError(w, http.StatusBadRequest, "Validation failed", map[string]string{"title": "must not be blank"})
		return
	}
	id, err := fs.Gateway.CreateList(r.Context(), domain.ListCreate{Title: body.Title, Description: body.Description})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, id)
}

func (fs *FakeServer) updateList(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if !decode(w, r, &raw) {
		return
	}
	id := mux.Vars(r)["listId"]
	p := domain.ListPatch{Title: field(raw, "title"), Description: field(raw, "description")}
	if err := fs.Gateway.UpdateList(r.Context(), id, p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, id)
}

func (fs *FakeServer) deleteList(w http.ResponseWriter, r *http.Request) {
	if err := fs.Gateway.DeleteList(r.Context(), mux.Vars(r)["listId"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (fs *FakeServer) createItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title     string  `json:"title"`
		Notes     *string `json:"notes"`
		ImagePath *string `json:"imagePath"`
	}
	if !decode(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		writeError(w, http.StatusBadRequest, "Validation failed", map[string]string{"title": "must not be blank"})
		return
	}
	id, err := fs.Gateway.CreateItem(r.Context(), mux.Vars(r)["listId"],
		domain.ItemCreate{Title: body.Title, Notes: body.Notes, ImagePath: body.ImagePath})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, id)
}

func (fs *FakeServer) updateItem(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if !decode(w, r, &raw) {
		return
	}
	vars := mux.Vars(r)
	p := domain.ItemPatch{Title: field(raw, "title"), Notes: field(raw, "notes"), ImagePath: field(raw, "imagePath")}
	if err := fs.Gateway.UpdateItem(r.Context(), vars["listId"], vars["id"], p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vars["id"])
}

func (fs *FakeServer) deleteItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := fs.Gateway.DeleteItem(r.Context(), vars["listId"], vars["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (fs *FakeServer) reorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ItemOrder []string `json:"itemOrder"`
	}
	if !decode(w, r, &body) {
		return
	}
	if err := fs.Gateway.Reorder(r.Context(), mux.Vars(r)["listId"], body.ItemOrder); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// field decodes one tri-state PATCH member: absent, null or a string.
func field(raw map[string]json.RawMessage, name string) domain.Field[string] {
	v, ok := raw[name]
	if !ok {
		return domain.Omit[string]()
	}
	if string(v) == "null" {
		return domain.Null[string]()
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return domain.Omit[string]()
	}
	return domain.Set(s)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed JSON request", nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, fields map[string]string) {
	writeJSON(w, status, map[string]any{
		"status":           status,
		"error":            http.StatusText(status),
		"message":          msg,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"validationErrors": fields,
	})
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case domain.KindValidation:
			status = http.StatusBadRequest
		case domain.KindNotFound:
			status = http.StatusNotFound
		case domain.KindConflict:
			status = http.StatusConflict
		case domain.KindAuth:
			status = http.StatusUnauthorized
		}
		writeError(w, status, de.Error(), de.Fields)
		return
	}
	writeError(w, status, err.Error(), nil)
}
