package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtally/subtally/internal/api"
	"github.com/subtally/subtally/internal/model"
)

func TestSession_Send(t *testing.T) {
	mock := api.NewMockClient()
	mock.SendChatMessageFn = func(_ context.Context, message string) (*model.ChatMessage, error) {
		return &model.ChatMessage{Role: model.RoleAssistant, Content: "You have 3 subscriptions."}, nil
	}

	session := NewSession(mock)
	reply, err := session.Send(context.Background(), "how many subscriptions do I have?")
	require.NoError(t, err)
	assert.Equal(t, "You have 3 subscriptions.", reply.Content)

	history := session.History()
	require.Len(t, history, 2)
	assert.Equal(t, model.RoleUser, history[0].Role)
	assert.Equal(t, "how many subscriptions do I have?", history[0].Content)
	assert.Equal(t, model.RoleAssistant, history[1].Role)
}

func TestSession_SendFailureKeepsUserMessage(t *testing.T) {
	mock := api.NewMockClient()
	mock.SendChatMessageFn = func(_ context.Context, _ string) (*model.ChatMessage, error) {
		return nil, errors.New("backend unavailable")
	}

	session := NewSession(mock)
	_, err := session.Send(context.Background(), "hello")
	require.Error(t, err)

	history := session.History()
	require.Len(t, history, 1)
	assert.Equal(t, model.RoleUser, history[0].Role)
}
