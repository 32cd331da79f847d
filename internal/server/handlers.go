package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"samvad/internal/auth"
	"samvad/internal/llm"
	"samvad/internal/pipeline"
	"samvad/internal/store"
)

// maxUploadBytes bounds document uploads at 32 MiB.
const maxUploadBytes = 32 << 20

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createChatRequest struct {
	CreatedBy string `json:"created_by"`
	ModelName string `json:"model_name"`
}

type postMessageRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			s.writeError(w, http.StatusConflict, "username already taken", nil)
		case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrWeakPassword):
			s.writeError(w, http.StatusBadRequest, "invalid username or password", nil)
		default:
			s.writeError(w, http.StatusInternalServerError, "registration failed", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.writeError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		s.writeError(w, http.StatusInternalServerError, "login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.CreatedBy == "" {
		s.writeError(w, http.StatusBadRequest, "created_by is required", nil)
		return
	}

	session := store.NewSession(req.CreatedBy, req.ModelName)
	if err := s.store.CreateSession(r.Context(), session); err != nil {
		s.writeError(w, statusForStoreError(err), "failed to create chat", err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	createdBy := r.URL.Query().Get("user")
	if createdBy == "" {
		s.writeError(w, http.StatusBadRequest, "user query parameter is required", nil)
		return
	}

	sessions, err := s.store.ListSessions(r.Context(), createdBy)
	if err != nil {
		s.writeError(w, statusForStoreError(err), "failed to list chats", err)
		return
	}
	if sessions == nil {
		sessions = []store.Session{}
	}

	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, statusForStoreError(err), "failed to load chat", err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// handlePostMessage appends a user message, asks the assistant, stores the
// reply, and returns it.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req postMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required", nil)
		return
	}

	session, err := s.store.GetSession(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, statusForStoreError(err), "failed to load chat", err)
		return
	}

	history := historyFromSession(session)
	history = append(history, llm.Message{Role: llm.RoleUser, Content: req.Message})

	reply, err := s.chat.Respond(r.Context(), history, documentContext(session))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to generate response", err)
		return
	}

	now := time.Now().UTC()
	userMessage := store.Message{Message: req.Message, IsUser: true, Timestamp: now}
	assistantMessage := store.Message{Message: reply, IsUser: false, Timestamp: now}
	if err := s.store.AppendMessage(r.Context(), sessionID, userMessage); err != nil {
		s.writeError(w, statusForStoreError(err), "failed to save message", err)
		return
	}
	if err := s.store.AppendMessage(r.Context(), sessionID, assistantMessage); err != nil {
		s.writeError(w, statusForStoreError(err), "failed to save message", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// handleProcessDocument accepts a multipart upload, runs the pipeline, and
// optionally attaches the result to an existing chat.
func (s *Server) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "file field is required", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read upload", err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	processor := s.processors.Default
	switch mode := r.FormValue("mode"); mode {
	case "", "default":
	case "llm-only":
		if s.processors.LLMOnly == nil {
			s.writeError(w, http.StatusBadRequest, "llm-only mode is not available", nil)
			return
		}
		processor = s.processors.LLMOnly
	default:
		s.writeError(w, http.StatusBadRequest, "unknown processing mode", nil)
		return
	}

	result, err := processor.Process(r.Context(), data, contentType)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnsupportedInput) || errors.Is(err, pipeline.ErrEmptyDocument) {
			s.writeError(w, http.StatusBadRequest, "unsupported document", err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, "document processing failed", err)
		return
	}

	if chatID := r.FormValue("chat_id"); chatID != "" {
		entry := store.FileEntry{
			Name:           header.Filename,
			Data:           data,
			ExtractedText:  extractedText(result),
			TranslatedText: result.Translated,
		}
		if err := s.store.AttachFile(r.Context(), chatID, entry); err != nil {
			s.writeError(w, statusForStoreError(err), "failed to attach file to chat", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// historyFromSession converts stored messages into the model conversation.
func historyFromSession(session *store.Session) []llm.Message {
	history := make([]llm.Message, 0, len(session.Messages))
	for _, message := range session.Messages {
		role := llm.RoleAssistant
		if message.IsUser {
			role = llm.RoleUser
		}
		history = append(history, llm.Message{Role: role, Content: message.Message})
	}
	return history
}

// documentContext joins the translated texts of a session's files.
func documentContext(session *store.Session) string {
	var texts []string
	for _, file := range session.FileGroup {
		if file.TranslatedText != "" {
			texts = append(texts, file.TranslatedText)
		}
	}
	return strings.Join(texts, "\n\n")
}

// extractedText joins the original segments back into source text.
func extractedText(result *pipeline.Result) string {
	texts := make([]string, 0, len(result.Original))
	for _, seg := range result.Original {
		texts = append(texts, seg.Text)
	}
	return strings.Join(texts, "\n")
}
