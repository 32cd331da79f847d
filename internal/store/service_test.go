package store

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewSession(t *testing.T) {
	session := NewSession("user-1", "gpt-4o-mini")

	if session.ID == "" {
		t.Error("NewSession() did not assign an id")
	}
	if session.CreatedBy != "user-1" || session.ModelName != "gpt-4o-mini" {
		t.Errorf("NewSession() = %+v", session)
	}
	if session.CreatedAt.IsZero() {
		t.Error("NewSession() did not set created_at")
	}
	if session.FileGroup == nil || session.Messages == nil {
		t.Error("NewSession() should initialize empty slices, not nil")
	}

	other := NewSession("user-1", "gpt-4o-mini")
	if other.ID == session.ID {
		t.Error("session ids must be unique")
	}
}

func TestFileEntryJSONExcludesRawData(t *testing.T) {
	entry := FileEntry{
		Name:           "scan.pdf",
		Data:           []byte{0x25, 0x50, 0x44, 0x46},
		ExtractedText:  "नमस्ते",
		TranslatedText: "Hello",
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(encoded), "data") {
		t.Errorf("raw bytes leaked into JSON: %s", encoded)
	}
	if !strings.Contains(string(encoded), "Hello") {
		t.Errorf("translated text missing from JSON: %s", encoded)
	}
}

func TestUserJSONExcludesPasswordHash(t *testing.T) {
	user := NewUser("ananya", "$2a$10$abcdefghijklmnopqrstuv")

	encoded, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(encoded), "$2a$") {
		t.Errorf("password hash leaked into JSON: %s", encoded)
	}
	if !strings.Contains(string(encoded), "ananya") {
		t.Errorf("username missing from JSON: %s", encoded)
	}
}
