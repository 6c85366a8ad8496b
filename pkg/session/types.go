package session

import (
	"time"

	"github.com/hotaru-ai/promptchat/pkg/prompt"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation. Immutable once appended.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a single ongoing conversation. Owned by the Store; callers only
// ever see copies.
type Session struct {
	ID           string          `json:"session_id"`
	Messages     []Message       `json:"messages"`
	SystemPrompt string          `json:"system_prompt"`
	ModelName    string          `json:"model_name"`
	Task         prompt.TaskType `json:"task_type"`
	CreatedAt    time.Time       `json:"created_at"`
	LastAccess   time.Time       `json:"last_access"`
}

// Summary is the listing view of a session.
type Summary struct {
	SessionID    string    `json:"session_id"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccess   time.Time `json:"last_access"`
}
