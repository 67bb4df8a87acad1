package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/subtally/subtally/internal/model"
)

// GetNotificationSettings fetches the account's reminder settings.
func (c *Client) GetNotificationSettings(ctx context.Context) (*model.NotificationSettings, error) {
	var settings model.NotificationSettings
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/notifications/settings", nil, &settings); err != nil {
		return nil, fmt.Errorf("failed to fetch notification settings: %w", err)
	}
	return &settings, nil
}

// UpdateNotificationSettings replaces the account's reminder settings and
// returns them as the server now has them.
func (c *Client) UpdateNotificationSettings(ctx context.Context, settings model.NotificationSettings) (*model.NotificationSettings, error) {
	var updated model.NotificationSettings
	if err := c.doJSON(ctx, http.MethodPut, "/api/v1/notifications/settings", settings, &updated); err != nil {
		return nil, fmt.Errorf("failed to update notification settings: %w", err)
	}
	return &updated, nil
}
