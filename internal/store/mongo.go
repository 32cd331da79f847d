package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"samvad/internal/logger"
)

const (
	sessionsCollection = "chats"
	usersCollection    = "users"

	connectTimeout = 10 * time.Second
)

// MongoStore implements Store on MongoDB. Sessions live in the chats
// collection with their messages and files embedded.
type MongoStore struct {
	db  *mongo.Database
	log zerolog.Logger
}

// NewMongoStore connects to MongoDB and pings it before returning.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	const op = "NewMongoStore"

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, WrapStoreError(op, ErrConnectionFailed, err.Error())
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, WrapStoreError(op, ErrConnectionFailed, err.Error())
	}

	return NewMongoStoreWithDatabase(client.Database(database)), nil
}

// NewMongoStoreWithDatabase creates a store on an existing database handle (for testing).
func NewMongoStoreWithDatabase(db *mongo.Database) *MongoStore {
	return &MongoStore{
		db:  db,
		log: logger.WithComponent("store"),
	}
}

// EnsureIndexes creates the unique indexes the store relies on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	const op = "EnsureIndexes"

	_, err := s.db.Collection(sessionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return WrapStoreError(op, err, "sessions id index")
	}

	_, err = s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return WrapStoreError(op, err, "users username index")
	}

	return nil
}

// CreateSession inserts a new session.
func (s *MongoStore) CreateSession(ctx context.Context, session *Session) error {
	const op = "CreateSession"

	_, err := s.db.Collection(sessionsCollection).InsertOne(ctx, session)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return NewStoreError(op, ErrDuplicate, session.ID)
		}
		return WrapStoreError(op, err, "")
	}

	s.log.Debug().Str("session_id", session.ID).Msg("Session created")
	return nil
}

// GetSession returns a session by id, including raw file bytes.
func (s *MongoStore) GetSession(ctx context.Context, id string) (*Session, error) {
	const op = "GetSession"

	var session Session
	err := s.db.Collection(sessionsCollection).
		FindOne(ctx, bson.M{"id": id}).
		Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewStoreError(op, ErrNotFound, id)
		}
		return nil, WrapStoreError(op, err, "")
	}

	return &session, nil
}

// ListSessions returns the sessions createdBy owns, newest first, with raw
// file bytes projected out so listings stay small.
func (s *MongoStore) ListSessions(ctx context.Context, createdBy string) ([]Session, error) {
	const op = "ListSessions"

	opts := options.Find().
		SetProjection(bson.M{"file_group.data": 0}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.db.Collection(sessionsCollection).Find(ctx, bson.M{"created_by": createdBy}, opts)
	if err != nil {
		return nil, WrapStoreError(op, err, "")
	}
	defer cursor.Close(ctx)

	var sessions []Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, WrapStoreError(op, err, "")
	}

	return sessions, nil
}

// AppendMessage pushes a message onto a session's history.
func (s *MongoStore) AppendMessage(ctx context.Context, sessionID string, message Message) error {
	const op = "AppendMessage"

	result, err := s.db.Collection(sessionsCollection).UpdateOne(ctx,
		bson.M{"id": sessionID},
		bson.M{"$push": bson.M{"messages": message}},
	)
	if err != nil {
		return WrapStoreError(op, err, "")
	}
	if result.MatchedCount == 0 {
		return NewStoreError(op, ErrNotFound, sessionID)
	}

	return nil
}

// AttachFile adds a processed file to a session's file group.
func (s *MongoStore) AttachFile(ctx context.Context, sessionID string, file FileEntry) error {
	const op = "AttachFile"

	result, err := s.db.Collection(sessionsCollection).UpdateOne(ctx,
		bson.M{"id": sessionID},
		bson.M{"$push": bson.M{"file_group": file}},
	)
	if err != nil {
		return WrapStoreError(op, err, "")
	}
	if result.MatchedCount == 0 {
		return NewStoreError(op, ErrNotFound, sessionID)
	}

	s.log.Debug().Str("session_id", sessionID).Str("file", file.Name).Msg("File attached to session")
	return nil
}

// CreateUser inserts a new user.
func (s *MongoStore) CreateUser(ctx context.Context, user *User) error {
	const op = "CreateUser"

	_, err := s.db.Collection(usersCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return NewStoreError(op, ErrDuplicate, user.Username)
		}
		return WrapStoreError(op, err, "")
	}

	return nil
}

// GetUserByUsername returns a user by username.
func (s *MongoStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	const op = "GetUserByUsername"

	var user User
	err := s.db.Collection(usersCollection).
		FindOne(ctx, bson.M{"username": username}).
		Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewStoreError(op, ErrNotFound, username)
		}
		return nil, WrapStoreError(op, err, "")
	}

	return &user, nil
}
