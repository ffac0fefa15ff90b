package types

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation. Messages are append-only:
// once added to a ConversationState they are never reordered or removed.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// NewHumanMessage creates a human turn with the current timestamp.
func NewHumanMessage(content string) Message {
	return Message{Role: RoleHuman, Content: content, Timestamp: time.Now()}
}

// NewAssistantMessage creates an assistant turn with the current timestamp.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, Timestamp: time.Now()}
}
