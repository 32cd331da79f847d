// Package pipeline runs a document through render, recognition, composition,
// chunking, and translation, and assembles the result.
package pipeline

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"samvad/internal/logger"
	"samvad/internal/ocr"
	"samvad/internal/render"
	"samvad/internal/segment"
	"samvad/internal/translate"
)

// Stage names the phase a document is in while it moves through the pipeline.
type Stage string

// Pipeline stages in processing order.
const (
	StageReceived    Stage = "received"
	StageRendering   Stage = "rendering"
	StageRecognizing Stage = "recognizing"
	StageComposing   Stage = "composing"
	StageChunking    Stage = "chunking"
	StageTranslating Stage = "translating"
	StageAssembled   Stage = "assembled"
	StageFailed      Stage = "failed"
)

// Result is the assembled output of a processed document.
type Result struct {
	// Original holds the composed source segments in reading order.
	Original []segment.Segment `json:"original"`

	// Translated is the full translated text, chunks joined in order.
	Translated string `json:"translated"`

	// SkippedPages lists 1-based PDF pages that failed to render and were
	// skipped. Empty for images and fully rendered PDFs.
	SkippedPages []int `json:"skipped_pages,omitempty"`
}

// Options tune a single orchestrator.
type Options struct {
	// TargetLanguage is the translation target, e.g. "en".
	TargetLanguage string

	// LanguageHint biases recognition toward a source language. Optional.
	LanguageHint string

	// MaxChunkChars bounds chunk size in runes. Zero selects the default.
	MaxChunkChars int

	// LineGapThresholdPx is the vertical gap treated as a line break.
	// Zero selects the default.
	LineGapThresholdPx int

	// SkipFailedPages continues past PDF pages that fail to render
	// instead of failing the whole document.
	SkipFailedPages bool
}

// Orchestrator wires the pipeline stages together. All stage backends are
// injected so each can be swapped or faked independently.
type Orchestrator struct {
	renderer   render.Renderer
	recognizer ocr.Recognizer
	translator translate.Translator
	composer   *segment.Composer
	opts       Options
	log        zerolog.Logger
}

// NewOrchestrator creates an orchestrator from its stage backends.
func NewOrchestrator(renderer render.Renderer, recognizer ocr.Recognizer, translator translate.Translator, opts Options) *Orchestrator {
	if opts.TargetLanguage == "" {
		opts.TargetLanguage = "en"
	}
	if opts.MaxChunkChars <= 0 {
		opts.MaxChunkChars = segment.DefaultMaxChunkChars
	}
	if opts.LineGapThresholdPx <= 0 {
		opts.LineGapThresholdPx = segment.DefaultLineGapThresholdPx
	}
	return &Orchestrator{
		renderer:   renderer,
		recognizer: recognizer,
		translator: translator,
		composer:   segment.NewComposer(),
		opts:       opts,
		log:        logger.WithComponent("pipeline"),
	}
}

// Process runs data through the full pipeline. contentType decides the
// intake path: "application/pdf" is rendered page by page, "image/*" is
// recognized directly. A document with no recognizable text yields an empty
// result, not an error.
func (o *Orchestrator) Process(ctx context.Context, data []byte, contentType string) (*Result, error) {
	const op = "Process"

	if len(data) == 0 {
		return nil, NewPipelineError(op, StageReceived, ErrEmptyDocument, "")
	}

	var fragments []ocr.Fragment
	var skipped []int
	var err error

	switch {
	case contentType == "application/pdf":
		fragments, skipped, err = o.recognizePDF(ctx, data)
	case strings.HasPrefix(contentType, "image/"):
		fragments, err = o.recognizeImage(ctx, data)
	default:
		return nil, NewPipelineError(op, StageReceived, ErrUnsupportedInput, contentType)
	}
	if err != nil {
		return nil, err
	}

	segments := o.composer.Compose(fragments)
	chunks := segment.ChunkSegments(segments, o.opts.MaxChunkChars, o.opts.LineGapThresholdPx)

	o.log.Info().
		Int("fragments", len(fragments)).
		Int("segments", len(segments)).
		Int("chunks", len(chunks)).
		Msg("Document composed, translating")

	translated, err := o.translateChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	if segments == nil {
		segments = []segment.Segment{}
	}
	return &Result{
		Original:     segments,
		Translated:   translated,
		SkippedPages: skipped,
	}, nil
}

// recognizePDF renders each page and recognizes it. Render failures skip
// the page when configured to, otherwise fail the document. Recognition
// failures always fail the document.
func (o *Orchestrator) recognizePDF(ctx context.Context, pdf []byte) ([]ocr.Fragment, []int, error) {
	const op = "recognizePDF"

	pageCount, err := o.renderer.PageCount(ctx, pdf)
	if err != nil {
		return nil, nil, NewPipelineError(op, StageRendering, err, "failed to read page count")
	}

	var fragments []ocr.Fragment
	var skipped []int

	for page := 1; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, NewPipelineError(op, StageRendering, err, "")
		}

		image, err := o.renderer.RenderPage(ctx, pdf, page)
		if err != nil {
			if o.opts.SkipFailedPages {
				o.log.Warn().Int("page", page).Err(err).Msg("Page render failed, skipping")
				skipped = append(skipped, page)
				continue
			}
			return nil, nil, NewPipelineError(op, StageRendering, err, "")
		}

		pageFragments, err := o.recognizer.DetectFragments(ctx, image, o.opts.LanguageHint)
		if err != nil {
			return nil, nil, NewPipelineError(op, StageRecognizing, err, "")
		}

		for i := range pageFragments {
			pageFragments[i].Page = page
		}
		fragments = append(fragments, pageFragments...)
	}

	if pageCount > 0 && len(skipped) == pageCount {
		return nil, nil, NewPipelineError(op, StageRendering, ErrNoPagesProcessed, "")
	}

	return fragments, skipped, nil
}

func (o *Orchestrator) recognizeImage(ctx context.Context, image []byte) ([]ocr.Fragment, error) {
	const op = "recognizeImage"

	fragments, err := o.recognizer.DetectFragments(ctx, image, o.opts.LanguageHint)
	if err != nil {
		return nil, NewPipelineError(op, StageRecognizing, err, "")
	}

	for i := range fragments {
		fragments[i].Page = 1
	}
	return fragments, nil
}

// translateChunks translates sequentially in order and joins the results
// with blank lines, preserving chunk boundaries in the assembled text.
func (o *Orchestrator) translateChunks(ctx context.Context, chunks []segment.Chunk) (string, error) {
	const op = "translateChunks"

	translated := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", NewPipelineError(op, StageTranslating, err, "")
		}

		text, err := o.translator.TranslateChunk(ctx, chunk.Text, o.opts.TargetLanguage)
		if err != nil {
			return "", NewPipelineError(op, StageTranslating, err, "chunk "+strconv.Itoa(i))
		}
		translated = append(translated, text)
	}

	return strings.Join(translated, "\n\n"), nil
}
