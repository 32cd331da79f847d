// Package server exposes the document pipeline, chat, and accounts over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"samvad/internal/llm"
	"samvad/internal/logger"
	"samvad/internal/pipeline"
	"samvad/internal/store"
)

// DocumentProcessor runs an uploaded document through the pipeline.
type DocumentProcessor interface {
	Process(ctx context.Context, data []byte, contentType string) (*pipeline.Result, error)
}

// Processors holds the pipelines an upload can select between. Default is
// required; LLMOnly backs the per-request "mode=llm-only" override and may
// be nil when no machine translation backend is configured away from.
type Processors struct {
	Default DocumentProcessor
	LLMOnly DocumentProcessor
}

// ChatResponder produces the assistant reply for a conversation.
type ChatResponder interface {
	Respond(ctx context.Context, history []llm.Message, documentContext string) (string, error)
}

// Authenticator registers and verifies user accounts.
type Authenticator interface {
	Register(ctx context.Context, username, password string) (*store.User, error)
	Login(ctx context.Context, username, password string) (*store.User, error)
}

// Server holds the handler dependencies.
type Server struct {
	processors Processors
	chat       ChatResponder
	auth       Authenticator
	store      store.Store
	production bool
	log        zerolog.Logger
}

// NewServer creates a server. In production mode internal error details are
// not echoed to clients.
func NewServer(processors Processors, chat ChatResponder, auth Authenticator, st store.Store, production bool) *Server {
	return &Server{
		processors: processors,
		chat:       chat,
		auth:       auth,
		store:      st,
		production: production,
		log:        logger.WithComponent("server"),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /documents", s.handleProcessDocument)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /chats", s.handleListChats)
	mux.HandleFunc("POST /chats", s.handleCreateChat)
	mux.HandleFunc("GET /chats/{id}", s.handleGetChat)
	mux.HandleFunc("POST /chats/{id}/messages", s.handlePostMessage)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.logRequests(mux)
}

// logRequests logs every request with method, path, and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends a JSON error body. Internal details stay server-side in
// production.
func (s *Server) writeError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		s.log.Error().Err(err).Int("status", status).Msg(message)
		if !s.production {
			message = message + ": " + err.Error()
		}
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return err
	}
	return nil
}

// statusForStoreError maps store sentinel errors to HTTP statuses.
func statusForStoreError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
