package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
)

// ErrCacheMiss is returned when the cache holds no copy of the requested data.
var ErrCacheMiss = errors.New("not in cache")

// CachedSummaries is the last fetched list index.
type CachedSummaries struct {
	Lists     []domain.ListSummary
	FetchedAt time.Time
}

// CachedList is the last fetched copy of one list.
type CachedList struct {
	List      *domain.List
	FetchedAt time.Time
}

// CacheRepo stores server copies of lists for offline display. Every write
// replaces or drops data; nothing here is ever sent back to the server.
type CacheRepo interface {
	ReplaceSummaries(ctx context.Context, lists []domain.ListSummary) error
	Summaries(ctx context.Context) (*CachedSummaries, error)
	InvalidateSummaries(ctx context.Context) error

	ReplaceList(ctx context.Context, l *domain.List) error
	GetList(ctx context.Context, listID string) (*CachedList, error)
	MergeItem(ctx context.Context, listID string, item domain.Item) error
	Invalidate(ctx context.Context, listID string) error

	// Clear drops every cached list and summary.
	Clear(ctx context.Context) error
}
