package client

import (
	"context"
	"net/http"
	"net/url"
)

// ListCategories returns all categories. The endpoint historically returned
// a raw array; decodeList also accepts the enveloped form.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	body, err := c.do(ctx, http.MethodGet, "/categories", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Category](body)
}

// CategoryRequest carries the fields for creating or updating a category.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
}

// CreateCategory creates a new category.
func (c *Client) CreateCategory(ctx context.Context, req CategoryRequest) (*Category, error) {
	body, err := c.do(ctx, http.MethodPost, "/categories", nil, req)
	if err != nil {
		return nil, err
	}

	var cat Category
	if err := decodeItem(body, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// UpdateCategory updates an existing category.
func (c *Client) UpdateCategory(ctx context.Context, id string, req CategoryRequest) (*Category, error) {
	body, err := c.do(ctx, http.MethodPut, "/categories/"+url.PathEscape(id), nil, req)
	if err != nil {
		return nil, err
	}

	var cat Category
	if err := decodeItem(body, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// DeleteCategory deletes a category by ID.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil)
	return err
}
