package api

import (
	"context"
	"net/http"

	"github.com/alexanderramin/listapp/internal/domain"
)

// GetUser returns the user of the current session.
func (c *Client) GetUser(ctx context.Context) (domain.User, error) {
	var out userDTO
	if err := c.do(ctx, http.MethodGet, userPath, nil, &out); err != nil {
		return domain.User{}, err
	}
	return out.toDomain(), nil
}

// UpdateUser patches the present profile fields of the session's user.
func (c *Client) UpdateUser(ctx context.Context, p domain.UserPatch) error {
	body := patchBody(map[string]domain.Field[string]{
		"name":  p.Name,
		"email": p.Email,
	})
	return c.do(ctx, http.MethodPatch, userPath, body, nil)
}

// DeleteUser deletes the session's account. The server ends the session.
func (c *Client) DeleteUser(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, userPath, nil, nil)
}

// ListLists returns summaries of every list owned by the user.
func (c *Client) ListLists(ctx context.Context) ([]domain.ListSummary, error) {
	var out []listDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/lists", nil, &out); err != nil {
		return nil, err
	}
	lists := make([]domain.ListSummary, 0, len(out))
	for _, d := range out {
		lists = append(lists, d.summary())
	}
	return lists, nil
}

// GetList returns a list with its items in server order.
func (c *Client) GetList(ctx context.Context, listID string) (*domain.List, error) {
	var out listDTO
	if err := c.do(ctx, http.MethodGet, pathf("/api/v1/lists/%s", listID), nil, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// CreateList creates a list and returns its ID.
func (c *Client) CreateList(ctx context.Context, in domain.ListCreate) (string, error) {
	var id string
	body := listCreateDTO{Title: in.Title, Description: in.Description}
	if err := c.do(ctx, http.MethodPost, "/api/v1/lists", body, &id); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateList patches the present fields of a list.
func (c *Client) UpdateList(ctx context.Context, listID string, p domain.ListPatch) error {
	body := patchBody(map[string]domain.Field[string]{
		"title":       p.Title,
		"description": p.Description,
	})
	return c.do(ctx, http.MethodPatch, pathf("/api/v1/lists/%s", listID), body, nil)
}

// DeleteList removes a list and its items.
func (c *Client) DeleteList(ctx context.Context, listID string) error {
	return c.do(ctx, http.MethodDelete, pathf("/api/v1/lists/%s", listID), nil, nil)
}

// CreateItem appends an item to a list and returns its ID.
func (c *Client) CreateItem(ctx context.Context, listID string, in domain.ItemCreate) (string, error) {
	var id string
	body := itemCreateDTO{Title: in.Title, Notes: in.Notes, ImagePath: in.ImagePath}
	if err := c.do(ctx, http.MethodPost, pathf("/api/v1/lists/%s/items", listID), body, &id); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateItem patches the present fields of an item.
func (c *Client) UpdateItem(ctx context.Context, listID, itemID string, p domain.ItemPatch) error {
	body := patchBody(map[string]domain.Field[string]{
		"title":     p.Title,
		"notes":     p.Notes,
		"imagePath": p.ImagePath,
	})
	return c.do(ctx, http.MethodPatch, pathf("/api/v1/lists/%s/items/%s", listID, itemID), body, nil)
}

// DeleteItem removes an item. The server closes the position gap.
func (c *Client) DeleteItem(ctx context.Context, listID, itemID string) error {
	return c.do(ctx, http.MethodDelete, pathf("/api/v1/lists/%s/items/%s", listID, itemID), nil, nil)
}

// Reorder replaces the item order of a list. An empty order is not sent.
func (c *Client) Reorder(ctx context.Context, listID string, itemOrder []string) error {
	if len(itemOrder) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPatch, pathf("/api/v1/lists/%s/items/order", listID), reorderDTO{ItemOrder: itemOrder}, nil)
}
