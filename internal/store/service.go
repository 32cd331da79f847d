// Package store persists chat sessions, processed files, and user accounts.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FileEntry is a processed document attached to a session. Raw bytes are
// kept for re-download but never serialized to API responses.
type FileEntry struct {
	Name           string `bson:"name" json:"name"`
	Data           []byte `bson:"data,omitempty" json:"-"`
	ExtractedText  string `bson:"extracted_text" json:"extracted_text"`
	TranslatedText string `bson:"translated_text" json:"translated_text"`
}

// Message is a single chat turn.
type Message struct {
	Message   string    `bson:"message" json:"message"`
	IsUser    bool      `bson:"is_user" json:"is_user"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Session is a chat session with its attached documents and history.
type Session struct {
	ID        string      `bson:"id" json:"id"`
	FileGroup []FileEntry `bson:"file_group" json:"file_group"`
	ModelName string      `bson:"model_name" json:"model_name"`
	CreatedBy string      `bson:"created_by" json:"created_by"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
	Messages  []Message   `bson:"messages" json:"messages"`
}

// User is an account record. The password field holds a bcrypt hash, never
// plaintext, and is excluded from API responses.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"password" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// NewSession creates an empty session owned by createdBy.
func NewSession(createdBy, modelName string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		ModelName: modelName,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
		FileGroup: []FileEntry{},
		Messages:  []Message{},
	}
}

// NewUser creates a user record from a username and an already hashed password.
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}

// Store persists sessions and users.
type Store interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	// ListSessions returns a user's sessions without raw file bytes.
	ListSessions(ctx context.Context, createdBy string) ([]Session, error)
	AppendMessage(ctx context.Context, sessionID string, message Message) error
	AttachFile(ctx context.Context, sessionID string, file FileEntry) error

	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}
