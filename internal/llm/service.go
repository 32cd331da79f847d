// Package llm defines the chat-completion collaborator contract shared by
// the translation refinement stage and the document-chat feature.
//
// Messages use a single tagged {role, content} shape validated once at the
// service boundary; malformed input is rejected with a typed error instead
// of being shape-probed at each call site.
package llm

import (
	"context"
	"strconv"
)

// Message roles accepted by the chat contract.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Validate checks that the message carries a known role and non-empty content.
func (m Message) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
	default:
		return NewChatError("Validate", ErrInvalidRole, m.Role)
	}
	if m.Content == "" {
		return NewChatError("Validate", ErrEmptyContent, "")
	}
	return nil
}

// ValidateMessages validates an ordered conversation in one pass.
func ValidateMessages(messages []Message) error {
	if len(messages) == 0 {
		return NewChatError("ValidateMessages", ErrNoMessages, "")
	}
	for i, message := range messages {
		if err := message.Validate(); err != nil {
			return WrapChatError("ValidateMessages", err, "message "+strconv.Itoa(i))
		}
	}
	return nil
}

// CompletionRequest describes one chat-completion call.
type CompletionRequest struct {
	// Model is the model identifier passed to the service.
	Model string

	// Temperature controls sampling randomness.
	Temperature float32

	// Messages is the ordered conversation, system prompt first.
	Messages []Message
}

// ChatService is the LLM chat-completion collaborator.
type ChatService interface {
	// Complete sends the conversation and returns the single completion string.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
