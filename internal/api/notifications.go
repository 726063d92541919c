package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nemukerja/nemukerja-tui/internal/model"
)

// ListNotifications fetches the signed-in user's notifications.
func (c *Client) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var list []model.Notification
	if err := c.getJSON(ctx, "/notifications", &list); err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	if list == nil {
		list = []model.Notification{}
	}
	return list, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id model.ID) (model.MutationResult, error) {
	var res model.MutationResult
	path := "/notifications/read/" + url.PathEscape(id.String())
	if err := c.postJSON(ctx, path, nil, &res); err != nil {
		return res, fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return res, nil
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (model.MutationResult, error) {
	var res model.MutationResult
	if err := c.postJSON(ctx, "/notifications/read-all", nil, &res); err != nil {
		return res, fmt.Errorf("marking all notifications read: %w", err)
	}
	return res, nil
}

// ClearAllNotifications deletes every notification of the user.
func (c *Client) ClearAllNotifications(ctx context.Context) (model.MutationResult, error) {
	var res model.MutationResult
	if err := c.postJSON(ctx, "/notifications/clear-all", nil, &res); err != nil {
		return res, fmt.Errorf("clearing notifications: %w", err)
	}
	return res, nil
}
