package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"samvad/internal/llm"
	"samvad/internal/logger"
)

const refineSystemPrompt = `You are a professional translator. You will receive a source text and a draft machine translation. Produce a polished translation that:
- preserves the original line breaks and formatting
- keeps proper nouns, names, and honorifics unchanged
- matches the register and tone of the source
- contains only the translation itself, with no commentary, notes, or explanations`

const directSystemPrompt = `You are a professional translator. Translate the text you receive into the requested language. Preserve the original line breaks and formatting, keep proper nouns unchanged, match the register of the source, and output only the translation with no commentary.`

// TwoStageTranslator implements Translator by combining a machine translation
// draft with a language model refinement pass. In llm-only mode the draft
// stage is skipped and the model translates directly.
type TwoStageTranslator struct {
	machine MachineTranslator
	chat    llm.ChatService
	mode    string
	model   string
	log     zerolog.Logger
}

// NewTwoStageTranslator creates a translator from its two backends. The
// machine translator may be nil only in llm-only mode.
func NewTwoStageTranslator(machine MachineTranslator, chat llm.ChatService, mode, model string) (*TwoStageTranslator, error) {
	const op = "NewTwoStageTranslator"

	switch mode {
	case ModeTwoStage:
		if machine == nil {
			return nil, NewTranslationError(op, ErrInvalidMode, "two-stage mode requires a machine translator")
		}
	case ModeLLMOnly:
	default:
		return nil, NewTranslationError(op, ErrInvalidMode, mode)
	}

	return &TwoStageTranslator{
		machine: machine,
		chat:    chat,
		mode:    mode,
		model:   model,
		log:     logger.WithComponent("translate"),
	}, nil
}

// TranslateChunk translates a single chunk into the target language. The
// result has model artifacts stripped and is ready to assemble.
func (t *TwoStageTranslator) TranslateChunk(ctx context.Context, text, targetLanguage string) (string, error) {
	const op = "TranslateChunk"

	if strings.TrimSpace(text) == "" {
		return "", NewTranslationError(op, ErrEmptyText, "")
	}

	var refined string
	var err error

	switch t.mode {
	case ModeTwoStage:
		refined, err = t.translateTwoStage(ctx, text, targetLanguage)
	case ModeLLMOnly:
		refined, err = t.translateDirect(ctx, text, targetLanguage)
	default:
		return "", NewTranslationError(op, ErrInvalidMode, t.mode)
	}
	if err != nil {
		return "", err
	}

	return CleanArtifacts(refined), nil
}

func (t *TwoStageTranslator) translateTwoStage(ctx context.Context, text, targetLanguage string) (string, error) {
	const op = "translateTwoStage"

	draft, err := t.machine.Translate(ctx, text, targetLanguage)
	if err != nil {
		return "", WrapTranslationError(op, err, "machine translation stage failed")
	}

	t.log.Debug().
		Str("target_language", targetLanguage).
		Int("draft_chars", len(draft)).
		Msg("Draft translation produced, refining")

	prompt := fmt.Sprintf("Target language: %s\n\nSource text:\n%s\n\nDraft translation:\n%s", targetLanguage, text, draft)

	refined, err := t.chat.Complete(ctx, llm.CompletionRequest{
		Model: t.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: refineSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", WrapTranslationError(op, err, "refinement stage failed")
	}

	return refined, nil
}

func (t *TwoStageTranslator) translateDirect(ctx context.Context, text, targetLanguage string) (string, error) {
	const op = "translateDirect"

	prompt := fmt.Sprintf("Target language: %s\n\nText:\n%s", targetLanguage, text)

	translated, err := t.chat.Complete(ctx, llm.CompletionRequest{
		Model: t.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: directSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", WrapTranslationError(op, err, "direct translation failed")
	}

	return translated, nil
}
