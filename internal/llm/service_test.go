package llm

import (
	"errors"
	"testing"
)

func TestMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		message Message
		wantErr error
	}{
		{
			name:    "valid user message",
			message: Message{Role: RoleUser, Content: "Hello"},
			wantErr: nil,
		},
		{
			name:    "valid system message",
			message: Message{Role: RoleSystem, Content: "You are a helpful assistant."},
			wantErr: nil,
		},
		{
			name:    "valid assistant message",
			message: Message{Role: RoleAssistant, Content: "Sure, here it is."},
			wantErr: nil,
		},
		{
			name:    "unknown role",
			message: Message{Role: "bot", Content: "Hello"},
			wantErr: ErrInvalidRole,
		},
		{
			name:    "empty role",
			message: Message{Role: "", Content: "Hello"},
			wantErr: ErrInvalidRole,
		},
		{
			name:    "empty content",
			message: Message{Role: RoleUser, Content: ""},
			wantErr: ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.message.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMessages(t *testing.T) {
	valid := []Message{
		{Role: RoleSystem, Content: "You are a translator."},
		{Role: RoleUser, Content: "Translate this."},
	}
	if err := ValidateMessages(valid); err != nil {
		t.Fatalf("ValidateMessages() error = %v, want nil", err)
	}

	if err := ValidateMessages(nil); !errors.Is(err, ErrNoMessages) {
		t.Fatalf("ValidateMessages(nil) error = %v, want %v", err, ErrNoMessages)
	}

	invalid := []Message{
		{Role: RoleUser, Content: "fine"},
		{Role: RoleUser, Content: ""},
	}
	err := ValidateMessages(invalid)
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("ValidateMessages() error = %v, want %v", err, ErrEmptyContent)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "plain text untouched",
			response: "Hello world",
			want:     "Hello world",
		},
		{
			name:     "bare fence",
			response: "```\nsome text\n```",
			want:     "some text",
		},
		{
			name:     "fence with language tag",
			response: "```json\n{\"a\": 1}\n```",
			want:     "{\"a\": 1}",
		},
		{
			name:     "surrounding whitespace",
			response: "  \n```\ncontent\n```\n  ",
			want:     "content",
		},
		{
			name:     "empty string",
			response: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.response); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.response, got, tt.want)
			}
		})
	}
}
