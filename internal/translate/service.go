// Package translate turns recognized source text into the target language.
//
// Translation runs in two stages: a machine translation pass produces a
// literal draft, then a language model refines it into fluent prose. The
// refinement stage can also run alone when no machine translation backend
// is configured.
package translate

import "context"

// Translation modes.
const (
	// ModeTwoStage runs machine translation first, then LLM refinement.
	ModeTwoStage = "two-stage"
	// ModeLLMOnly sends the source text straight to the language model.
	ModeLLMOnly = "llm-only"
)

// MachineTranslator produces a literal draft translation of a single text.
type MachineTranslator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// Translator converts one chunk of recognized text into the target language.
type Translator interface {
	TranslateChunk(ctx context.Context, text, targetLanguage string) (string, error)
}
