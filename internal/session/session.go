// Package session persists the server session cookie and probes whether it
// is still valid.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
)

const (
	fileName      = "session.json"
	defaultCookie = "JSESSIONID"
	envOverride   = "LISTAPP_SESSION"
)

// ErrEmptyCookie is returned when a login value carries no cookie value.
var ErrEmptyCookie = errors.New("empty session cookie")

// Session is a stored login.
type Session struct {
	CookieName  string    `json:"cookie_name"`
	CookieValue string    `json:"cookie_value"`
	Source      string    `json:"source"` // "env" | "file"
	CreatedAt   time.Time `json:"created_at"`
}

// Cookie returns the HTTP cookie for the session.
func (s Session) Cookie() *http.Cookie {
	return &http.Cookie{Name: s.CookieName, Value: s.CookieValue, Path: "/"}
}

// Store reads and writes the session file under a directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir (usually ~/.listapp).
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, fileName)
}

// Load returns the current session. LISTAPP_SESSION overrides the file.
// A missing file is not an error; it returns nil.
func (s *Store) Load() (*Session, error) {
	if env := strings.TrimSpace(os.Getenv(envOverride)); env != "" {
		name, value, err := ParseCookie(env)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envOverride, err)
		}
		return &Session{CookieName: name, CookieValue: value, Source: "env"}, nil
	}

	b, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.CookieName == "" {
		sess.CookieName = defaultCookie
	}
	return &sess, nil
}

// Save writes a session cookie given as NAME=VALUE or a bare value.
func (s *Store) Save(raw string) (*Session, error) {
	name, value, err := ParseCookie(raw)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	sess := &Session{
		CookieName:  name,
		CookieValue: value,
		Source:      "file",
		CreatedAt:   time.Now().UTC(),
	}
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(s.Path(), b, 0o600); err != nil {
		return nil, fmt.Errorf("write session: %w", err)
	}
	return sess, nil
}

// Delete removes the session file. Removing a missing file succeeds.
func (s *Store) Delete() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// ParseCookie splits NAME=VALUE. A bare value is taken as JSESSIONID, and a
// leading "Cookie:" header prefix is ignored.
func ParseCookie(raw string) (string, string, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 7 && strings.EqualFold(raw[:7], "cookie:") {
		raw = strings.TrimSpace(raw[7:])
	}
	raw = strings.TrimSuffix(raw, ";")
	name, value, found := strings.Cut(raw, "=")
	if !found {
		name, value = defaultCookie, raw
	}
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if name == "" {
		name = defaultCookie
	}
	if value == "" {
		return "", "", ErrEmptyCookie
	}
	return name, value, nil
}

// UserGetter fetches the user of the current session.
type UserGetter interface {
	GetUser(ctx context.Context) (domain.User, error)
}

// Probe reports whether the session is valid. Any failure means "not logged
// in".
func Probe(ctx context.Context, g UserGetter) (domain.User, bool) {
	u, err := g.GetUser(ctx)
	if err != nil {
		return domain.User{}, false
	}
	return u, true
}
