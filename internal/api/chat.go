package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/subtally/subtally/internal/model"
)

// SendChatMessage sends one user message to the assistant and returns its
// reply. Conversation state is held server-side.
func (c *Client) SendChatMessage(ctx context.Context, message string) (*model.ChatMessage, error) {
	body := map[string]string{"message": message}
	var reply model.ChatMessage
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/chat", body, &reply); err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	return &reply, nil
}

// Ensure Client implements the assistant contract.
var _ Assistant = (*Client)(nil)
