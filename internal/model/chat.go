package model

import "time"

// ChatRole identifies the author of a chat message.
type ChatRole string

// Chat roles.
const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is a single turn in an assistant conversation.
type ChatMessage struct {
	CreatedAt time.Time `json:"created_at"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
}
