package state

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the follow-up conversation. IsError marks an
// assistant entry that records a failed request rather than a real reply;
// error entries are excluded from the grounding sent to the model.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	IsError   bool      `json:"is_error,omitempty"`
}

// UserMessage builds a user message stamped with the current time.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, CreatedAt: time.Now()}
}

// AssistantMessage builds an assistant message stamped with the current time.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, CreatedAt: time.Now()}
}

// ErrorMessage builds an assistant entry recording a failed request.
func ErrorMessage(explanation string) Message {
	return Message{Role: RoleAssistant, Content: explanation, CreatedAt: time.Now(), IsError: true}
}
