package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"samvad/internal/config"
	"samvad/internal/llm"
	"samvad/internal/ocr"
	"samvad/internal/pipeline"
	"samvad/internal/render"
	"samvad/internal/translate"
)

// pipelines holds the orchestrators built from one configuration. llmOnly
// is nil when the configured default already skips machine translation.
type pipelines struct {
	standard *pipeline.Orchestrator
	llmOnly  *pipeline.Orchestrator
}

// buildPipelines wires the pipeline stages from configuration. The stage
// clients are shared between both orchestrators.
func buildPipelines(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pipelines, error) {
	renderer, err := render.NewPopplerRenderer(cfg.RenderScale)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create PDF renderer")
		return nil, err
	}

	var recognizer ocr.Recognizer
	switch cfg.OCRBackend {
	case "documentai":
		recognizer, err = ocr.NewDocumentAIRecognizer(ctx)
	default:
		recognizer, err = ocr.NewGoogleVisionRecognizer(ctx)
	}
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.OCRBackend).Msg("Failed to create OCR recognizer")
		return nil, err
	}

	chatService := llm.NewOpenAIChatServiceWithClient(openai.NewClient(cfg.OpenAIAPIKey))

	var machine translate.MachineTranslator
	if cfg.TranslateMode == translate.ModeTwoStage {
		machine, err = translate.NewGoogleTranslator(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create machine translator")
			return nil, err
		}
	}

	opts := pipeline.Options{
		TargetLanguage:     cfg.TargetLanguage,
		LanguageHint:       cfg.LanguageHint,
		MaxChunkChars:      cfg.MaxChunkChars,
		LineGapThresholdPx: cfg.LineGapThresholdPx,
		SkipFailedPages:    cfg.SkipFailedPages,
	}

	translator, err := translate.NewTwoStageTranslator(machine, chatService, cfg.TranslateMode, cfg.OpenAIModel)
	if err != nil {
		return nil, err
	}

	built := &pipelines{
		standard: pipeline.NewOrchestrator(renderer, recognizer, translator, opts),
	}

	// A separate llm-only orchestrator backs the per-upload mode override.
	if cfg.TranslateMode == translate.ModeTwoStage {
		direct, err := translate.NewTwoStageTranslator(nil, chatService, translate.ModeLLMOnly, cfg.OpenAIModel)
		if err != nil {
			return nil, err
		}
		built.llmOnly = pipeline.NewOrchestrator(renderer, recognizer, direct, opts)
	}

	return built, nil
}

// createContextWithTimeout returns a context cancelled on SIGINT/SIGTERM or
// after the timeout.
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Warn().Str("signal", sig.String()).Msg("Received signal, cancelling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
