package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListActivityLogs returns one page of the audit trail, most recent first.
func (c *Client) ListActivityLogs(ctx context.Context, page int) (*Page[ActivityLog], error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}

	body, err := c.do(ctx, http.MethodGet, "/activity-logs", q, nil)
	if err != nil {
		return nil, err
	}
	return decodePage[ActivityLog](body)
}
