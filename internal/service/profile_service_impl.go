package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
	"github.com/alexanderramin/listapp/internal/repository"
)

type profileService struct {
	gateway  UserGateway
	cache    repository.CacheRepo
	observer UseCaseObserver
}

// NewProfileService creates a ProfileService. cache may be nil.
func NewProfileService(gateway UserGateway, cache repository.CacheRepo, observers ...UseCaseObserver) ProfileService {
	return &profileService{
		gateway:  gateway,
		cache:    cache,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *profileService) Get(ctx context.Context) (u domain.User, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "get-profile", time.Now().UTC(), fields, &err)

	u, err = s.gateway.GetUser(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("loading profile: %w", err)
	}
	return u, nil
}

// Update sends the changed profile fields and returns the merged user. It
// reports false without a request when nothing changed.
func (s *profileService) Update(ctx context.Context, initial domain.User, name, email string) (u domain.User, changed bool, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "update-profile", time.Now().UTC(), fields, &err)

	patch, err := domain.NewUserPatch(initial, name, email)
	if err != nil {
		return initial, false, err
	}
	if patch.Empty() {
		return initial, false, nil
	}
	if err = s.gateway.UpdateUser(ctx, patch); err != nil {
		return initial, false, fmt.Errorf("updating profile: %w", err)
	}
	fields["name_changed"] = patch.Name.Present()
	fields["email_changed"] = patch.Email.Present()
	return patch.Apply(initial), true, nil
}

// Delete removes the account and drops every cached copy of its lists.
func (s *profileService) Delete(ctx context.Context) (err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "delete-profile", time.Now().UTC(), fields, &err)

	if err = s.gateway.DeleteUser(ctx); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	if s.cache != nil {
		if cerr := s.cache.Clear(ctx); cerr != nil {
			fields["cache_error"] = cerr.Error()
		}
	}
	return nil
}
