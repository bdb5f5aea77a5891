package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
)

const (
	csrfCookie = "XSRF-TOKEN"
	csrfHeader = "X-XSRF-TOKEN"
	userPath   = "/api/v1/user"
)

// Config holds the gateway settings.
type Config struct {
	BaseURL    string
	TimeoutMs  int
	MaxRetries int
}

// Client talks to the listapp REST API with a cookie session.
type Client struct {
	cfg      Config
	base     *url.URL
	jar      http.CookieJar
	http     *http.Client
	observer Observer
}

// NewClient creates a Client. A nil jar gets a fresh in-memory jar and a nil
// observer discards call events.
func NewClient(cfg Config, jar http.CookieJar, observer Observer) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api url %q", cfg.BaseURL)
	}
	if jar == nil {
		jar, _ = cookiejar.New(nil)
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = 10000
	}
	return &Client{
		cfg:  cfg,
		base: base,
		jar:  jar,
		http: &http.Client{
			Jar: jar,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}, nil
}

// BaseURL returns the API root the client was configured with.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// SetCookie places a cookie in the jar for the API host.
func (c *Client) SetCookie(cookie *http.Cookie) {
	c.jar.SetCookies(c.base, []*http.Cookie{cookie})
}

// Cookie returns the named cookie currently held for the API host.
func (c *Client) Cookie(name string) (*http.Cookie, bool) {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == name {
			return ck, true
		}
	}
	return nil, false
}

// do sends one API call. GET requests are retried on network-class failures;
// other methods are sent exactly once. out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		payload = data
	}

	if method != http.MethodGet {
		c.ensureCSRF(ctx)
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.cfg.MaxRetries
	}

	var (
		status  int
		lastErr error
		tries   int
	)
	for tries < attempts {
		tries++
		var respBody []byte
		status, respBody, lastErr = c.send(ctx, method, path, payload)
		if lastErr == nil {
			if out != nil && len(respBody) > 0 {
				if err := json.Unmarshal(respBody, out); err != nil {
					lastErr = &domain.Error{Kind: domain.KindNetwork, Message: "unexpected response", Status: status, Err: err}
				}
			}
			break
		}
		if domain.KindOf(lastErr) != domain.KindNetwork || ctx.Err() != nil {
			break
		}
	}

	c.observer.OnCall(CallEvent{
		Method:   method,
		Path:     path,
		Status:   status,
		Latency:  time.Since(start),
		Attempts: tries,
		Err:      lastErr,
	})
	return lastErr
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		if ck, ok := c.Cookie(csrfCookie); ok {
			req.Header.Set(csrfHeader, ck.Value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, transportError(ctx, fmt.Errorf("reading response: %w", err))
	}
	if resp.StatusCode >= 300 {
		return resp.StatusCode, respBody, classify(resp.StatusCode, respBody)
	}
	return resp.StatusCode, respBody, nil
}

// ensureCSRF fetches the current user once when no CSRF cookie is held yet.
// The server issues XSRF-TOKEN on every response, so any GET primes the jar.
func (c *Client) ensureCSRF(ctx context.Context) {
	if _, ok := c.Cookie(csrfCookie); ok {
		return
	}
	_, _, _ = c.send(ctx, http.MethodGet, userPath, nil)
}

func transportError(ctx context.Context, err error) error {
	msg := "request failed"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timed out"
	case ctx.Err() != nil:
		msg = "request cancelled"
	}
	return &domain.Error{Kind: domain.KindNetwork, Message: msg, Err: err}
}

func pathf(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}
