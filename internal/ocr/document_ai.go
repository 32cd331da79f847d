package ocr

import (
	"context"
	"fmt"
	"os"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"samvad/internal/logger"
)

// DocumentAIConfig configures the Document AI recognition backend.
type DocumentAIConfig struct {
	ProjectID   string
	Location    string
	ProcessorID string
	Timeout     time.Duration
}

// DocumentAIRecognizer implements Recognizer using a Google Document AI OCR
// processor. Compared to Vision text detection it yields word-level tokens,
// which the segment composer handles the same way.
type DocumentAIRecognizer struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIRecognizer creates a recognizer with credentials from environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
// Requires: GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION, DOCUMENT_AI_PROCESSOR_ID
func NewDocumentAIRecognizer(ctx context.Context) (Recognizer, error) {
	const op = "NewDocumentAIRecognizer"

	config := DocumentAIConfig{
		ProjectID:   os.Getenv("GOOGLE_CLOUD_PROJECT"),
		Location:    os.Getenv("GOOGLE_CLOUD_LOCATION"),
		ProcessorID: os.Getenv("DOCUMENT_AI_PROCESSOR_ID"),
		Timeout:     60 * time.Second,
	}

	if config.ProjectID == "" {
		return nil, WrapRecognitionError(op, ErrInvalidConfiguration, "GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, WrapRecognitionError(op, ErrInvalidConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "us" // Default location
	}

	var clientOptions []option.ClientOption

	// Set regional endpoint if not us-central1
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapRecognitionError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapRecognitionError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIRecognizer{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}, nil
}

// NewDocumentAIRecognizerWithConfig creates a recognizer with explicit config and client (for testing).
func NewDocumentAIRecognizerWithConfig(config DocumentAIConfig, client *documentai.DocumentProcessorClient) Recognizer {
	return &DocumentAIRecognizer{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

// DetectFragments runs the OCR processor on one image and returns word-level
// tokens as fragments in processor-reported order.
func (d *DocumentAIRecognizer) DetectFragments(ctx context.Context, image []byte, languageHint string) ([]Fragment, error) {
	const op = "DetectFragments"

	if len(image) == 0 {
		return nil, WrapRecognitionError(op, ErrEmptyImage, "")
	}

	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	req := &documentaipb.ProcessRequest{
		Name: fmt.Sprintf("projects/%s/locations/%s/processors/%s",
			d.config.ProjectID, d.config.Location, d.config.ProcessorID),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  image,
				MimeType: "image/png",
			},
		},
	}

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, WrapRecognitionError(op, ErrRecognitionFailed, fmt.Sprintf("Document AI call failed: %v", err))
	}

	doc := resp.GetDocument()
	if doc == nil {
		return nil, WrapRecognitionError(op, ErrRecognitionFailed, "no document in Document AI response")
	}

	fragments := fragmentsFromDocument(doc)

	d.log.Debug().
		Int("fragments", len(fragments)).
		Int("pages", len(doc.GetPages())).
		Msg("Document AI recognition completed")

	return fragments, nil
}

// fragmentsFromDocument flattens a Document AI document into token fragments.
func fragmentsFromDocument(doc *documentaipb.Document) []Fragment {
	var fragments []Fragment

	for _, page := range doc.GetPages() {
		width := page.GetDimension().GetWidth()
		height := page.GetDimension().GetHeight()

		for _, token := range page.GetTokens() {
			layout := token.GetLayout()
			text := anchorText(doc.GetText(), layout.GetTextAnchor())
			if text == "" {
				continue
			}

			fragment := Fragment{Text: text}
			if poly := layout.GetBoundingPoly(); poly != nil {
				if vertices := poly.GetVertices(); len(vertices) > 0 {
					for _, vertex := range vertices {
						fragment.BoundingBox = append(fragment.BoundingBox, Point{
							X: int(vertex.GetX()),
							Y: int(vertex.GetY()),
						})
					}
				} else {
					// OCR processors may report only normalized vertices.
					for _, vertex := range poly.GetNormalizedVertices() {
						fragment.BoundingBox = append(fragment.BoundingBox, Point{
							X: int(vertex.GetX() * width),
							Y: int(vertex.GetY() * height),
						})
					}
				}
			}

			fragments = append(fragments, fragment)
		}
	}

	return fragments
}

// anchorText resolves a text anchor against the full document text.
func anchorText(text string, anchor *documentaipb.Document_TextAnchor) string {
	if anchor == nil {
		return ""
	}

	var out string
	for _, segment := range anchor.GetTextSegments() {
		start := int(segment.GetStartIndex())
		end := int(segment.GetEndIndex())
		if start < 0 || end > len(text) || start >= end {
			continue
		}
		out += text[start:end]
	}
	return out
}

// Close closes the underlying Document AI client.
func (d *DocumentAIRecognizer) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
