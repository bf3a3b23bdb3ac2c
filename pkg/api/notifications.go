package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gitforum/gitforum.go/pkg/models"
)

// ListNotifications returns the current user's inbox, newest first.
func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/notifications/", nil, &raw); err != nil {
		return nil, err
	}
	return decodeArrayOrPage[models.Notification](raw)
}

// MarkAllNotificationsRead marks the whole inbox read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/notifications/read-all/", nil, nil)
}

// MarkNotificationRead marks a single notification read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/notifications/%s/read/", id), nil, nil)
}
