package client

import (
	"context"
	"net/http"
	"net/url"
)

// NotificationList is the notifications listing with its unread counter.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// ListNotifications returns the current user's notifications and the count
// of unread ones.
func (c *Client) ListNotifications(ctx context.Context) (*NotificationList, error) {
	body, err := c.do(ctx, http.MethodGet, "/notifications", nil, nil)
	if err != nil {
		return nil, err
	}

	var list NotificationList
	if err := decodeItem(body, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
	return err
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/notifications/read-all", nil, nil)
	return err
}
