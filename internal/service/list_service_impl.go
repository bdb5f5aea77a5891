package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/repository"
	"github.com/alexanderramin/listapp/internal/sequence"
)

type listService struct {
	gateway  Gateway
	cache    repository.CacheRepo
	observer UseCaseObserver
}

// NewListService creates a ListService. cache may be nil, which disables
// the offline fallback.
func NewListService(gateway Gateway, cache repository.CacheRepo, observers ...UseCaseObserver) ListService {
	return &listService{
		gateway:  gateway,
		cache:    cache,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *listService) List(ctx context.Context) (index *ListIndex, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "list-lists", time.Now().UTC(), fields, &err)

	lists, err := s.gateway.ListLists(ctx)
	if err == nil {
		fields["count"] = len(lists)
		if s.cache != nil {
			if cerr := s.cache.ReplaceSummaries(ctx, lists); cerr != nil {
				fields["cache_error"] = cerr.Error()
			}
		}
		return &ListIndex{Lists: lists, FetchedAt: time.Now().UTC()}, nil
	}
	if !canFallBack(err) || s.cache == nil {
		return nil, fmt.Errorf("listing lists: %w", err)
	}
	cached, cerr := s.cache.Summaries(ctx)
	if cerr != nil {
		return nil, fmt.Errorf("listing lists: %w", err)
	}
	fields["stale"] = true
	return &ListIndex{Lists: cached.Lists, Stale: true, FetchedAt: cached.FetchedAt}, nil
}

func (s *listService) Get(ctx context.Context, listID string) (view *ListView, err error) {
	fields := map[string]any{"list_id": listID}
	defer observe(ctx, s.observer, "get-list", time.Now().UTC(), fields, &err)

	l, err := s.gateway.GetList(ctx, listID)
	if err == nil {
		l.Items = sortedItems(l)
		fields["items"] = len(l.Items)
		if s.cache != nil {
			if cerr := s.cache.ReplaceList(ctx, l); cerr != nil {
				fields["cache_error"] = cerr.Error()
			}
		}
		return &ListView{List: l, FetchedAt: time.Now().UTC()}, nil
	}
	if !canFallBack(err) || s.cache == nil {
		return nil, fmt.Errorf("loading list: %w", err)
	}
	cached, cerr := s.cache.GetList(ctx, listID)
	if cerr != nil {
		return nil, fmt.Errorf("loading list: %w", err)
	}
	fields["stale"] = true
	cached.List.Items = sortedItems(cached.List)
	return &ListView{List: cached.List, Stale: true, FetchedAt: cached.FetchedAt}, nil
}

func (s *listService) Create(ctx context.Context, title, description string) (id string, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "create-list", time.Now().UTC(), fields, &err)

	in, err := domain.NewListCreate(title, description)
	if err != nil {
		return "", err
	}
	id, err = s.gateway.CreateList(ctx, in)
	if err != nil {
		return "", fmt.Errorf("creating list: %w", err)
	}
	fields["list_id"] = id
	s.invalidateSummaries(ctx, fields)
	return id, nil
}

// Update sends only the fields that differ from initial. It reports false
// without a request when nothing changed.
func (s *listService) Update(ctx context.Context, initial domain.ListSummary, title, description string) (changed bool, err error) {
	fields := map[string]any{"list_id": initial.ID}
	defer observe(ctx, s.observer, "update-list", time.Now().UTC(), fields, &err)

	patch, err := domain.NewListPatch(initial, title, description)
	if err != nil {
		return false, err
	}
	if patch.Empty() {
		return false, nil
	}
	if err = s.gateway.UpdateList(ctx, initial.ID, patch); err != nil {
		return false, fmt.Errorf("updating list: %w", err)
	}
	s.invalidate(ctx, initial.ID, fields)
	s.invalidateSummaries(ctx, fields)
	return true, nil
}

func (s *listService) Delete(ctx context.Context, listID string) (err error) {
	fields := map[string]any{"list_id": listID}
	defer observe(ctx, s.observer, "delete-list", time.Now().UTC(), fields, &err)

	if err = s.gateway.DeleteList(ctx, listID); err != nil {
		return fmt.Errorf("deleting list: %w", err)
	}
	s.invalidate(ctx, listID, fields)
	s.invalidateSummaries(ctx, fields)
	return nil
}

func (s *listService) invalidate(ctx context.Context, listID string, fields map[string]any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, listID); err != nil {
		fields["cache_error"] = err.Error()
	}
}

func (s *listService) invalidateSummaries(ctx context.Context, fields map[string]any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSummaries(ctx); err != nil {
		fields["cache_error"] = err.Error()
	}
}

// canFallBack reports whether err is a transport-level failure for which
// the cached copy may be shown.
func canFallBack(err error) bool {
	return domain.KindOf(err) == domain.KindNetwork && !errors.Is(err, context.Canceled)
}

func sortedItems(l *domain.List) []domain.Item {
	s := sequence.New(l.ID)
	s.Load(l.Items)
	return s.Items()
}
