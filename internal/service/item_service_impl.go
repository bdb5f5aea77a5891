package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/repository"
)

type itemService struct {
	gateway  Gateway
	cache    repository.CacheRepo
	observer UseCaseObserver
}

// NewItemService creates an ItemService. cache may be nil.
func NewItemService(gateway Gateway, cache repository.CacheRepo, observers ...UseCaseObserver) ItemService {
	return &itemService{
		gateway:  gateway,
		cache:    cache,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Create validates the input and creates the item. Invalid input is
// rejected before any request. The returned item has no position; the
// caller appends it to its sequence.
func (s *itemService) Create(ctx context.Context, listID, title, notes, imagePath string) (item domain.Item, err error) {
	fields := map[string]any{"list_id": listID}
	defer observe(ctx, s.observer, "create-item", time.Now().UTC(), fields, &err)

	in, err := domain.NewItemCreate(title, notes, imagePath)
	if err != nil {
		return domain.Item{}, err
	}
	id, err := s.gateway.CreateItem(ctx, listID, in)
	if err != nil {
		return domain.Item{}, fmt.Errorf("creating item: %w", err)
	}
	fields["item_id"] = id
	s.invalidate(ctx, listID, fields)
	return domain.Item{ID: id, Title: in.Title, Notes: in.Notes, ImagePath: in.ImagePath}, nil
}

// Update diffs the form input against initial and sends the tri-state
// patch. It returns the merged item and false without a request when
// nothing changed.
func (s *itemService) Update(ctx context.Context, listID string, initial domain.Item, title, notes, imagePath string) (item domain.Item, changed bool, err error) {
	fields := map[string]any{"list_id": listID, "item_id": initial.ID}
	defer observe(ctx, s.observer, "update-item", time.Now().UTC(), fields, &err)

	patch, err := domain.NewItemPatch(initial, title, notes, imagePath)
	if err != nil {
		return initial, false, err
	}
	if patch.Empty() {
		return initial, false, nil
	}
	if err = s.gateway.UpdateItem(ctx, listID, initial.ID, patch); err != nil {
		return initial, false, fmt.Errorf("updating item: %w", err)
	}

	item = initial
	if v, ok := patch.Title.Value(); ok {
		item.Title = v
	}
	item.Notes = domain.ApplyField(item.Notes, patch.Notes)
	item.ImagePath = domain.ApplyField(item.ImagePath, patch.ImagePath)
	if s.cache != nil {
		if cerr := s.cache.MergeItem(ctx, listID, item); cerr != nil {
			fields["cache_error"] = cerr.Error()
		}
	}
	return item, true, nil
}

func (s *itemService) Delete(ctx context.Context, listID, itemID string) (err error) {
	fields := map[string]any{"list_id": listID, "item_id": itemID}
	defer observe(ctx, s.observer, "delete-item", time.Now().UTC(), fields, &err)

	if err = s.gateway.DeleteItem(ctx, listID, itemID); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	s.invalidate(ctx, listID, fields)
	return nil
}

// Reorder persists a full item order. It satisfies the reorder gateway so
// drag-and-drop goes through the same logging and cache rules.
func (s *itemService) Reorder(ctx context.Context, listID string, itemOrder []string) (err error) {
	fields := map[string]any{"list_id": listID, "items": len(itemOrder)}
	defer observe(ctx, s.observer, "reorder-items", time.Now().UTC(), fields, &err)

	if err = s.gateway.Reorder(ctx, listID, itemOrder); err != nil {
		return err
	}
	s.invalidate(ctx, listID, fields)
	return nil
}

// invalidate drops the cached list and the summaries whose item counts or
// order may now be wrong.
func (s *itemService) invalidate(ctx context.Context, listID string, fields map[string]any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, listID); err != nil {
		fields["cache_error"] = err.Error()
	}
	if err := s.cache.InvalidateSummaries(ctx); err != nil {
		fields["cache_error"] = err.Error()
	}
}
