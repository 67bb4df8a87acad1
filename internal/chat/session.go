package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/subtally/subtally/internal/api"
	"github.com/subtally/subtally/internal/model"
)

// Session is a single assistant conversation. History is kept client-side;
// the backend is stateless between messages.
type Session struct {
	svc     api.Assistant
	history []model.ChatMessage
}

// NewSession creates a chat session backed by the given assistant service.
func NewSession(svc api.Assistant) *Session {
	return &Session{svc: svc}
}

// History returns the messages exchanged so far, oldest first.
func (s *Session) History() []model.ChatMessage {
	return s.history
}

// Send submits one user message and records both it and the assistant reply
// in the session history. On transport failure the user message is still
// recorded so the conversation transcript stays honest.
func (s *Session) Send(ctx context.Context, message string) (*model.ChatMessage, error) {
	s.history = append(s.history, model.ChatMessage{
		Role:      model.RoleUser,
		Content:   message,
		CreatedAt: time.Now(),
	})

	reply, err := s.svc.SendChatMessage(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("sending chat message: %w", err)
	}

	s.history = append(s.history, *reply)
	return reply, nil
}
