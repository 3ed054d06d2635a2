package client

import (
	"context"
	"net/http"
)

// LoginRequest represents the login request body. Identifier accepts either
// a username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login authenticates the user and returns a bearer token with the user it
// belongs to. It never fabricates credentials locally; a token only ever
// comes from the backend.
func (c *Client) Login(ctx context.Context, identifier, password string) (*LoginResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", nil, LoginRequest{
		Identifier: identifier,
		Password:   password,
	})
	if err != nil {
		return nil, err
	}

	var loginResp LoginResponse
	if err := decodeItem(body, &loginResp); err != nil {
		return nil, err
	}
	return &loginResp, nil
}

// Logout tells the backend to invalidate the session. Callers clear local
// state regardless of whether this call succeeds.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	return err
}

// Me returns the profile of the currently authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	body, err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeItem(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterRequest represents the account registration request body.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account. It does not authenticate the session; on
// success the caller is expected to log in.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/register", nil, RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeItem(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
