// Package imagepolicy decides which item image paths may be shown as images.
//
// A source passes when its scheme is https (or http when allowed), its host
// is on the allow-list (an empty list admits any host) and it names an image
// type. The type comes from the path extension, or from the server's
// Content-Type when a Confirmer is configured.
package imagepolicy

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
)

var (
	ErrEmpty       = errors.New("no image source")
	ErrMalformed   = errors.New("malformed image url")
	ErrScheme      = errors.New("image scheme not allowed")
	ErrHost        = errors.New("image host not allowed")
	ErrType        = errors.New("not an image type")
	ErrUnconfirmed = errors.New("image type not confirmed")
)

var extensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true,
}

var contentTypes = map[string]bool{
	"image/png": true, "image/jpeg": true, "image/gif": true, "image/webp": true, "image/svg+xml": true,
}

// Confirmer reports the content type a server declares for an image URL.
type Confirmer interface {
	ContentType(ctx context.Context, rawURL string) (string, error)
}

// Policy is an image source allow-list.
type Policy struct {
	AllowHTTP bool
	Hosts     []string
	Confirmer Confirmer
}

// Check applies the static rules: scheme, host and path extension.
func (p Policy) Check(raw string) error {
	u, err := p.parse(raw)
	if err != nil {
		return err
	}
	if !extensions[strings.ToLower(path.Ext(u.Path))] {
		return ErrType
	}
	return nil
}

// Verify applies the static scheme and host rules and then confirms the type
// with the Confirmer. Without a Confirmer it falls back to the extension.
func (p Policy) Verify(ctx context.Context, raw string) error {
	if p.Confirmer == nil {
		return p.Check(raw)
	}
	u, err := p.parse(raw)
	if err != nil {
		return err
	}
	ct, err := p.Confirmer.ContentType(ctx, u.String())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnconfirmed, err)
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil || !contentTypes[strings.ToLower(mediaType)] {
		return ErrType
	}
	return nil
}

// Allowed reports whether item's image passes the static rules.
func (p Policy) Allowed(item domain.Item) bool {
	return item.HasImage() && p.Check(*item.ImagePath) == nil
}

// AllAllowed reports whether every item has an image that passes the static
// rules. An empty slice never qualifies.
func (p Policy) AllAllowed(items []domain.Item) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !p.Allowed(it) {
			return false
		}
	}
	return true
}

func (p Policy) parse(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmpty
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrMalformed
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
	case "http":
		if !p.AllowHTTP {
			return nil, ErrScheme
		}
	default:
		return nil, ErrScheme
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || u.User != nil {
		return nil, ErrMalformed
	}
	if len(p.Hosts) > 0 && !hostAllowed(host, p.Hosts) {
		return nil, ErrHost
	}
	return u, nil
}

// hostAllowed matches exact hosts and "*.example.com" suffix patterns.
func hostAllowed(host string, allowed []string) bool {
	for _, a := range allowed {
		a = strings.ToLower(a)
		if suffix, ok := strings.CutPrefix(a, "*."); ok {
			if strings.HasSuffix(host, "."+suffix) {
				return true
			}
			continue
		}
		if host == a {
			return true
		}
	}
	return false
}

// HTTPConfirmer asks the image host with a HEAD request.
type HTTPConfirmer struct {
	Client *http.Client
}

// NewHTTPConfirmer returns a confirmer with a short timeout.
func NewHTTPConfirmer() *HTTPConfirmer {
	return &HTTPConfirmer{Client: &http.Client{Timeout: 5 * time.Second}}
}

func (c *HTTPConfirmer) ContentType(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.Header.Get("Content-Type"), nil
}
