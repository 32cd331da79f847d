package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"samvad/internal/auth"
	"samvad/internal/llm"
	"samvad/internal/pipeline"
	"samvad/internal/segment"
	"samvad/internal/store"
)

type fakeProcessor struct {
	result *pipeline.Result
	err    error
}

func (f *fakeProcessor) Process(ctx context.Context, data []byte, contentType string) (*pipeline.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeResponder struct {
	reply string
	err   error
}

func (f *fakeResponder) Respond(ctx context.Context, history []llm.Message, documentContext string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeAuth struct {
	registerErr error
	loginErr    error
}

func (f *fakeAuth) Register(ctx context.Context, username, password string) (*store.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return store.NewUser(username, "hash"), nil
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*store.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return store.NewUser(username, "hash"), nil
}

type fakeStore struct {
	sessions map[string]*store.Session
	users    map[string]*store.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: map[string]*store.Session{},
		users:    map[string]*store.User{},
	}
}

func (f *fakeStore) CreateSession(ctx context.Context, session *store.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeStore) GetSession(ctx context.Context, id string) (*store.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, store.NewStoreError("GetSession", store.ErrNotFound, id)
	}
	return session, nil
}

func (f *fakeStore) ListSessions(ctx context.Context, createdBy string) ([]store.Session, error) {
	var sessions []store.Session
	for _, session := range f.sessions {
		if session.CreatedBy == createdBy {
			sessions = append(sessions, *session)
		}
	}
	return sessions, nil
}

func (f *fakeStore) AppendMessage(ctx context.Context, sessionID string, message store.Message) error {
	session, ok := f.sessions[sessionID]
	if !ok {
		return store.NewStoreError("AppendMessage", store.ErrNotFound, sessionID)
	}
	session.Messages = append(session.Messages, message)
	return nil
}

func (f *fakeStore) AttachFile(ctx context.Context, sessionID string, file store.FileEntry) error {
	session, ok := f.sessions[sessionID]
	if !ok {
		return store.NewStoreError("AttachFile", store.ErrNotFound, sessionID)
	}
	session.FileGroup = append(session.FileGroup, file)
	return nil
}

func (f *fakeStore) CreateUser(ctx context.Context, user *store.User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, store.NewStoreError("GetUserByUsername", store.ErrNotFound, username)
	}
	return user, nil
}

func newTestServer(t *testing.T, processor DocumentProcessor, responder ChatResponder, authn Authenticator, st store.Store) http.Handler {
	t.Helper()
	if processor == nil {
		processor = &fakeProcessor{result: &pipeline.Result{Original: []segment.Segment{}}}
	}
	if responder == nil {
		responder = &fakeResponder{reply: "ok"}
	}
	if authn == nil {
		authn = &fakeAuth{}
	}
	if st == nil {
		st = newFakeStore()
	}
	return NewServer(Processors{Default: processor}, responder, authn, st, false).Handler()
}

func multipartUpload(t *testing.T, fields map[string]string, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, writer.FormDataContentType()
}

func TestProcessDocument(t *testing.T) {
	result := &pipeline.Result{
		Original:   []segment.Segment{{Text: "नमस्ते।", Page: 1}},
		Translated: "Greetings.",
	}
	handler := newTestServer(t, &fakeProcessor{result: result}, nil, nil, nil)

	body, contentType := multipartUpload(t, nil, "scan.pdf", "application/pdf", []byte("%PDF-"))
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var got pipeline.Result
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Translated != "Greetings." || len(got.Original) != 1 {
		t.Errorf("response = %+v", got)
	}
}

func TestProcessDocumentUnsupportedType(t *testing.T) {
	processor := &fakeProcessor{err: pipeline.NewPipelineError("Process", pipeline.StageReceived, pipeline.ErrUnsupportedInput, "text/plain")}
	handler := newTestServer(t, processor, nil, nil, nil)

	body, contentType := multipartUpload(t, nil, "notes.txt", "text/plain", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProcessDocumentAttachesToChat(t *testing.T) {
	st := newFakeStore()
	session := store.NewSession("user-1", "gpt-4o-mini")
	st.sessions[session.ID] = session

	result := &pipeline.Result{
		Original:   []segment.Segment{{Text: "पहला।"}, {Text: "दूसरा।"}},
		Translated: "First.\n\nSecond.",
	}
	handler := newTestServer(t, &fakeProcessor{result: result}, nil, nil, st)

	body, contentType := multipartUpload(t, map[string]string{"chat_id": session.ID}, "scan.pdf", "application/pdf", []byte("%PDF-"))
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if len(session.FileGroup) != 1 {
		t.Fatalf("session has %d files, want 1", len(session.FileGroup))
	}
	file := session.FileGroup[0]
	if file.Name != "scan.pdf" || file.TranslatedText != "First.\n\nSecond." {
		t.Errorf("attached file = %+v", file)
	}
	if file.ExtractedText != "पहला।\nदूसरा।" {
		t.Errorf("ExtractedText = %q", file.ExtractedText)
	}
}

func TestProcessDocumentMissingFile(t *testing.T) {
	handler := newTestServer(t, nil, nil, nil, nil)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("chat_id", "x")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	handler := newTestServer(t, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"ananya","password":"long-enough-pw"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Error("register response leaks the password hash")
	}

	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"ananya","password":"long-enough-pw"}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body)
	}
}

func TestRegisterConflict(t *testing.T) {
	authn := &fakeAuth{registerErr: auth.NewAuthError("Register", auth.ErrUserExists, "ananya")}
	handler := newTestServer(t, nil, nil, authn, nil)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"ananya","password":"long-enough-pw"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestLoginUnauthorized(t *testing.T) {
	authn := &fakeAuth{loginErr: auth.NewAuthError("Login", auth.ErrInvalidCredentials, "")}
	handler := newTestServer(t, nil, nil, authn, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"ananya","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestChatLifecycle(t *testing.T) {
	st := newFakeStore()
	responder := &fakeResponder{reply: "The document is a morning prayer."}
	handler := newTestServer(t, nil, responder, nil, st)

	// Create a chat.
	req := httptest.NewRequest(http.MethodPost, "/chats", strings.NewReader(`{"created_by":"user-1","model_name":"gpt-4o-mini"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body)
	}
	var created store.Session
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	// Post a message.
	req = httptest.NewRequest(http.MethodPost, "/chats/"+created.ID+"/messages", strings.NewReader(`{"message":"What is this about?"}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("message status = %d, body = %s", rec.Code, rec.Body)
	}
	var reply map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&reply); err != nil {
		t.Fatal(err)
	}
	if reply["response"] != "The document is a morning prayer." {
		t.Errorf("response = %q", reply["response"])
	}

	// Both turns were persisted.
	session := st.sessions[created.ID]
	if len(session.Messages) != 2 {
		t.Fatalf("session has %d messages, want 2", len(session.Messages))
	}
	if !session.Messages[0].IsUser || session.Messages[1].IsUser {
		t.Error("message roles persisted incorrectly")
	}

	// Fetch and list.
	req = httptest.NewRequest(http.MethodGet, "/chats/"+created.ID, nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/chats?user=user-1", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("list status = %d", rec.Code)
	}
}

func TestGetChatNotFound(t *testing.T) {
	handler := newTestServer(t, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/chats/missing", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPostMessageValidation(t *testing.T) {
	st := newFakeStore()
	session := store.NewSession("user-1", "gpt-4o-mini")
	st.sessions[session.ID] = session
	handler := newTestServer(t, nil, nil, nil, st)

	req := httptest.NewRequest(http.MethodPost, "/chats/"+session.ID+"/messages", strings.NewReader(`{"message":"   "}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/chats/missing/messages", strings.NewReader(`{"message":"hello"}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestProcessDocumentModeSelection(t *testing.T) {
	standard := &fakeProcessor{result: &pipeline.Result{Translated: "two-stage"}}
	direct := &fakeProcessor{result: &pipeline.Result{Translated: "llm-only"}}
	handler := NewServer(Processors{Default: standard, LLMOnly: direct}, &fakeResponder{}, &fakeAuth{}, newFakeStore(), false).Handler()

	tests := []struct {
		mode       string
		wantStatus int
		wantText   string
	}{
		{mode: "", wantStatus: http.StatusOK, wantText: "two-stage"},
		{mode: "llm-only", wantStatus: http.StatusOK, wantText: "llm-only"},
		{mode: "bogus", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		fields := map[string]string{}
		if tt.mode != "" {
			fields["mode"] = tt.mode
		}
		body, contentType := multipartUpload(t, fields, "scan.pdf", "application/pdf", []byte("%PDF-"))
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != tt.wantStatus {
			t.Errorf("mode %q: status = %d, want %d", tt.mode, rec.Code, tt.wantStatus)
			continue
		}
		if tt.wantText != "" && !strings.Contains(rec.Body.String(), tt.wantText) {
			t.Errorf("mode %q: body = %s, want %q", tt.mode, rec.Body, tt.wantText)
		}
	}
}

func TestErrorDetailsHiddenInProduction(t *testing.T) {
	processor := &fakeProcessor{err: errors.New("vision credentials rejected")}
	handler := NewServer(Processors{Default: processor}, &fakeResponder{}, &fakeAuth{}, newFakeStore(), true).Handler()

	body, contentType := multipartUpload(t, nil, "scan.pdf", "application/pdf", []byte("%PDF-"))
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "credentials") {
		t.Errorf("internal details leaked in production: %s", rec.Body)
	}
}
