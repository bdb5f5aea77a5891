package service

import (
	"context"
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
)

// Gateway is the remote store the services talk to.
type Gateway interface {
	GetUser(ctx context.Context) (domain.User, error)
	ListLists(ctx context.Context) ([]domain.ListSummary, error)
	GetList(ctx context.Context, listID string) (*domain.List, error)
	CreateList(ctx context.Context, in domain.ListCreate) (string, error)
	UpdateList(ctx context.Context, listID string, p domain.ListPatch) error
	DeleteList(ctx context.Context, listID string) error
	CreateItem(ctx context.Context, listID string, in domain.ItemCreate) (string, error)
	UpdateItem(ctx context.Context, listID, itemID string, p domain.ItemPatch) error
	DeleteItem(ctx context.Context, listID, itemID string) error
	Reorder(ctx context.Context, listID string, itemOrder []string) error
}

// UserGateway reads and changes the account behind the session.
type UserGateway interface {
	GetUser(ctx context.Context) (domain.User, error)
	UpdateUser(ctx context.Context, p domain.UserPatch) error
	DeleteUser(ctx context.Context) error
}

// ListIndex is the user's lists. Stale is set when the server could not be
// reached and the cached copy from FetchedAt is returned instead.
type ListIndex struct {
	Lists     []domain.ListSummary
	Stale     bool
	FetchedAt time.Time
}

// ListView is one list with its items sorted by position.
type ListView struct {
	List      *domain.List
	Stale     bool
	FetchedAt time.Time
}

type ListService interface {
	List(ctx context.Context) (*ListIndex, error)
	Get(ctx context.Context, listID string) (*ListView, error)
	Create(ctx context.Context, title, description string) (string, error)
	Update(ctx context.Context, initial domain.ListSummary, title, description string) (bool, error)
	Delete(ctx context.Context, listID string) error
}

type ItemService interface {
	Create(ctx context.Context, listID, title, notes, imagePath string) (domain.Item, error)
	Update(ctx context.Context, listID string, initial domain.Item, title, notes, imagePath string) (domain.Item, bool, error)
	Delete(ctx context.Context, listID, itemID string) error
	Reorder(ctx context.Context, listID string, itemOrder []string) error
}

type ProfileService interface {
	Get(ctx context.Context) (domain.User, error)
	Update(ctx context.Context, initial domain.User, name, email string) (domain.User, bool, error)
	Delete(ctx context.Context) error
}
