// Package chat answers user questions about processed documents.
//
// Each conversation carries the extracted and translated document text as
// context. Short greetings and identity questions get canned replies; the
// rest of the conversation goes to the language model with the history
// trimmed to fit the context budget.
package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"samvad/internal/llm"
	"samvad/internal/logger"
)

const systemPrompt = `You are Samvad.ai, a friendly and helpful language assistant specializing in document analysis. Your role is to assist users in making insightful analyses of their documents.

Guidelines:
- Identity: Always refer to yourself as a representative of Samvad.ai. Never admit to being a chatbot.
- Tone: Maintain a supportive and conversational tone. Engage users and provide clear, concise, and insightful responses.
- Focus: Assist users by providing insights into their documents, helping them understand meaning, context, and tone.
- Follow-up: Encourage users to ask further questions and clarify their needs regarding document analysis.

Respond using markdown for clarity and readability.`

const (
	// DefaultContextBudget is the token allowance for a whole request.
	DefaultContextBudget = 8192

	// replyReserve is held back from the budget for the model's answer.
	replyReserve = 1000
)

// Service answers conversation turns about a document.
type Service struct {
	chat          llm.ChatService
	model         string
	contextBudget int
	log           zerolog.Logger
}

// NewService creates a chat service. A contextBudget of zero selects the default.
func NewService(chatService llm.ChatService, model string, contextBudget int) *Service {
	if contextBudget <= 0 {
		contextBudget = DefaultContextBudget
	}
	return &Service{
		chat:          chatService,
		model:         model,
		contextBudget: contextBudget,
		log:           logger.WithComponent("chat"),
	}
}

// Respond produces the assistant's reply to the latest message in history.
// documentContext, when non-empty, is the translated document the
// conversation is about and is pinned alongside the system prompt.
func (s *Service) Respond(ctx context.Context, history []llm.Message, documentContext string) (string, error) {
	const op = "Respond"

	if err := llm.ValidateMessages(history); err != nil {
		return "", err
	}

	last := history[len(history)-1]
	if reply, ok := CustomResponse(last.Content); ok {
		s.log.Debug().Msg("Canned response matched")
		return reply, nil
	}

	messages := s.assembleMessages(history, documentContext)

	reply, err := s.chat.Complete(ctx, llm.CompletionRequest{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		return "", llm.WrapChatError(op, err, "chat completion failed")
	}

	return reply, nil
}

// assembleMessages builds the request conversation: system prompt first,
// document context next, then as much recent history as the budget allows,
// dropped oldest first.
func (s *Service) assembleMessages(history []llm.Message, documentContext string) []llm.Message {
	pinned := []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}
	if strings.TrimSpace(documentContext) != "" {
		pinned = append(pinned, llm.Message{
			Role:    llm.RoleSystem,
			Content: "The user's document, translated:\n\n" + documentContext,
		})
	}

	budget := s.contextBudget - replyReserve
	used := 0
	for _, message := range pinned {
		used += estimateTokens(message.Content)
	}

	var kept []llm.Message
	for i := len(history) - 1; i >= 0; i-- {
		cost := estimateTokens(history[i].Content) + 1
		if used+cost > budget {
			break
		}
		used += cost
		kept = append([]llm.Message{history[i]}, kept...)
	}

	if len(kept) < len(history) {
		s.log.Debug().
			Int("dropped", len(history)-len(kept)).
			Int("kept", len(kept)).
			Msg("Trimmed conversation history to fit context budget")
	}

	return append(pinned, kept...)
}

// estimateTokens approximates the token count of a text. Four characters
// per token is close enough for budget trimming.
func estimateTokens(text string) int {
	return len(text) / 4
}
