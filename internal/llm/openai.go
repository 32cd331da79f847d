package llm

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"samvad/internal/logger"
)

// DefaultModel is used when a completion request does not name a model.
const DefaultModel = openai.GPT4oMini

// maxRetries bounds completion attempts against transient API failures.
const maxRetries = 3

// OpenAIChatService implements ChatService using the OpenAI chat completions API.
type OpenAIChatService struct {
	client *openai.Client
	log    zerolog.Logger
}

// NewOpenAIChatService creates a service with the API key from environment.
func NewOpenAIChatService() (ChatService, error) {
	const op = "NewOpenAIChatService"

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, NewChatError(op, ErrMissingAPIKey, "")
	}

	return NewOpenAIChatServiceWithClient(openai.NewClient(apiKey)), nil
}

// NewOpenAIChatServiceWithClient creates a service with an explicit client (for testing).
func NewOpenAIChatServiceWithClient(client *openai.Client) ChatService {
	return &OpenAIChatService{
		client: client,
		log:    logger.WithComponent("llm"),
	}
}

// Complete validates the conversation, sends it, and returns the completion
// content with any markdown code fences stripped.
func (s *OpenAIChatService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	const op = "Complete"

	if err := ValidateMessages(req.Messages); err != nil {
		return "", err
	}

	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, message := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    message.Role,
			Content: message.Content,
		})
	}

	s.log.Debug().
		Str("model", model).
		Int("messages", len(messages)).
		Msg("Sending chat completion request")

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", WrapChatError(op, err, "")
		}

		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       model,
			Messages:    messages,
			Temperature: req.Temperature,
		})
		if err != nil {
			lastErr = err
			s.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Msg("Chat completion request failed, retrying")
			continue
		}

		if len(resp.Choices) == 0 {
			lastErr = ErrNoCompletion
			continue
		}

		return StripCodeFence(resp.Choices[0].Message.Content), nil
	}

	return "", WrapChatError(op, lastErr, "chat completion failed after retries")
}

// StripCodeFence removes a wrapping markdown code block, which models
// sometimes add despite instructions.
func StripCodeFence(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		// Drop a language tag on the opening fence, e.g. ```json
		if idx := strings.Index(cleaned, "\n"); idx >= 0 && !strings.ContainsAny(cleaned[:idx], " \t") {
			cleaned = cleaned[idx+1:]
		}
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}
