package client

import (
	"context"
	"net/http"
	"net/url"
)

// ListUsers returns all user accounts. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	body, err := c.do(ctx, http.MethodGet, "/users", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[User](body)
}

// CreateUserRequest represents a request to create a new user account.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser creates a new user account. Admin only.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	body, err := c.do(ctx, http.MethodPost, "/users", nil, req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeItem(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes a user account by ID. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
	return err
}
