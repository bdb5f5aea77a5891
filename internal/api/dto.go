package api

import (
	"time"

	"github.com/alexanderramin/listapp/internal/domain"
)

type userDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type itemDTO struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Notes     *string `json:"notes"`
	ImagePath *string `json:"imagePath"`
	Position  int     `json:"position"`
}

type listDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Version     int64     `json:"version"`
	ItemCount   *int      `json:"itemCount"`
	Items       []itemDTO `json:"items"`
}

type itemCreateDTO struct {
	Title     string  `json:"title"`
	Notes     *string `json:"notes,omitempty"`
	ImagePath *string `json:"imagePath,omitempty"`
}

type listCreateDTO struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

type reorderDTO struct {
	ItemOrder []string `json:"itemOrder"`
}

func (d userDTO) toDomain() domain.User {
	return domain.User{ID: d.ID, Name: d.Name, Email: d.Email, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

func (d itemDTO) toDomain() domain.Item {
	return domain.Item{
		ID:        d.ID,
		Title:     d.Title,
		Notes:     d.Notes,
		ImagePath: d.ImagePath,
		Position:  d.Position,
	}
}

// toDomain converts the list. Items keep the server's arbitrary order;
// callers sort them by loading a sequence store.
func (d listDTO) toDomain() *domain.List {
	l := &domain.List{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Version:     d.Version,
		Items:       make([]domain.Item, 0, len(d.Items)),
	}
	for _, it := range d.Items {
		l.Items = append(l.Items, it.toDomain())
	}
	return l
}

func (d listDTO) summary() domain.ListSummary {
	count := len(d.Items)
	if d.ItemCount != nil {
		count = *d.ItemCount
	}
	return domain.ListSummary{ID: d.ID, Title: d.Title, Description: d.Description, ItemCount: count}
}

// patchBody builds a PATCH body that carries only present fields, with
// cleared fields as explicit JSON nulls.
func patchBody(fields map[string]domain.Field[string]) map[string]any {
	body := make(map[string]any, len(fields))
	for name, f := range fields {
		if f.Present() {
			body[name] = f.Wire()
		}
	}
	return body
}
