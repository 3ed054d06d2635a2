// Package client is the HTTP client for the Arkiv API. It attaches bearer
// tokens, normalizes the backend's response envelopes, and evicts the
// persisted credential on any 401 before the error reaches the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arkiv-dev/arkiv/internal/apierror"
	"github.com/arkiv-dev/arkiv/internal/cli/auth"
)

// Client represents an HTTP client for the Arkiv API
type Client struct {
	baseURL    string
	server     string
	httpClient *http.Client
	creds      auth.Store

	// onUnauthenticated runs after the persisted credential has been
	// deleted in response to a 401 and before the error is returned.
	onUnauthenticated func()
}

// New creates a new API client. baseURL is the server root, e.g.
// "http://localhost:8080"; the "/api" prefix is appended per request.
func New(baseURL string, creds auth.Store) *Client {
	baseURL = strings.TrimRight(baseURL, "/")

	server := baseURL
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		server = u.Host
	}

	return &Client{
		baseURL: baseURL,
		server:  server,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// Server returns the credential slot key this client reads tokens from.
func (c *Client) Server() string {
	return c.server
}

// OnUnauthenticated registers a hook invoked whenever a request comes back
// 401. The hook runs after the credential slot has been cleared.
func (c *Client) OnUnauthenticated(fn func()) {
	c.onUnauthenticated = fn
}

// evict clears the persisted credential and notifies the session layer.
// Runs before the triggering caller sees its error.
func (c *Client) evict() {
	_ = c.creds.Delete(c.server)
	if c.onUnauthenticated != nil {
		c.onUnauthenticated()
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + "/api" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	// Anonymous calls (login, register) go out without a token.
	if cred, err := c.creds.Load(c.server); err == nil && cred.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", cred.Token))
	}

	return req, nil
}

// do issues a JSON request and returns the raw response body. Non-2xx
// responses come back as *apierror.APIError; a 401 additionally clears the
// credential slot and fires the eviction hook first.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.normalizeTransport(err)
	}
	defer resp.Body.Close()

	return c.readResponse(resp)
}

// normalizeTransport wraps a network-level failure so raw transport errors
// never escape the client.
func (c *Client) normalizeTransport(err error) error {
	return apierror.Transport(err)
}

// readResponse drains the body and applies the shared status handling. A
// 401 evicts the credential before the error is returned to the caller.
func (c *Client) readResponse(resp *http.Response) ([]byte, error) {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.normalizeTransport(err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.evict()
		return nil, apierror.FromResponse(resp.StatusCode, respBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierror.FromResponse(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// Pagination mirrors the backend's pagination block.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// envelope covers the success shapes the backend has used over time:
// {status,data}, {status,data,pagination}, and bare payloads.
type envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
}

func firstByte(body []byte) byte {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b
	}
	return 0
}

// parseEnvelope interprets an object body as an envelope. A body whose
// envelope declares status "error" is a failure even under HTTP 200.
func parseEnvelope(body []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Status == "error" {
		msg := env.Message
		if msg == "" {
			msg = apierror.FallbackMessage
		}
		return nil, &apierror.APIError{Message: msg}
	}
	return &env, nil
}

// decodeItem unwraps a single-object response into out, tolerating both
// enveloped and bare payloads.
func decodeItem(body []byte, out any) error {
	if len(body) == 0 || out == nil {
		return nil
	}

	if firstByte(body) != '{' {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	env, err := parseEnvelope(body)
	if err != nil {
		return err
	}

	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeList unwraps a list response, tolerating both a raw JSON array and
// an enveloped {status,data:[...]} body.
func decodeList[T any](body []byte) ([]T, error) {
	if len(body) == 0 {
		return nil, nil
	}

	if firstByte(body) == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return items, nil
	}

	env, err := parseEnvelope(body)
	if err != nil {
		return nil, err
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return items, nil
}

// decodePage unwraps a paginated listing. A backend that returns a raw
// array (older envelope) is treated as a single page.
func decodePage[T any](body []byte) (*Page[T], error) {
	if firstByte(body) == '[' {
		items, err := decodeList[T](body)
		if err != nil {
			return nil, err
		}
		return &Page[T]{
			Items: items,
			Pagination: Pagination{
				CurrentPage: 1,
				LastPage:    1,
				PerPage:     len(items),
				Total:       len(items),
				From:        1,
				To:          len(items),
			},
		}, nil
	}

	env, err := parseEnvelope(body)
	if err != nil {
		return nil, err
	}

	page := &Page[T]{}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	}

	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &page.Items); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	if env.Pagination == nil {
		page.Pagination = Pagination{
			CurrentPage: 1,
			LastPage:    1,
			PerPage:     len(page.Items),
			Total:       len(page.Items),
			From:        1,
			To:          len(page.Items),
		}
	}

	return page, nil
}
