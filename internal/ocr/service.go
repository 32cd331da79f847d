// Package ocr provides text recognition for document bitmaps using Google Cloud.
//
// Two backends are available: Google Cloud Vision text detection (the default)
// and a Document AI OCR processor. Both return the same Fragment contract:
// per-block recognition results in reading order, each carrying the bounding
// polygon reported by the service. The synthetic whole-image aggregate that
// Vision places first in its annotation list is never included.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// For the Document AI backend additionally:
//   - GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION, DOCUMENT_AI_PROCESSOR_ID
package ocr

import (
	"context"
)

// Point is a 2D coordinate in source-pixel space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Fragment is one raw recognition result: a word, line, or block depending on
// backend granularity. Fragments are created by a Recognizer and consumed by
// the segment composer; they are never mutated after creation.
type Fragment struct {
	// Text is the recognized string.
	Text string `json:"text"`

	// Page is the originating page number (1-based). Zero for single-image
	// input, where no page exists.
	Page int `json:"page,omitempty"`

	// BoundingBox holds the polygon corners of the detected region, in the
	// order reported by the recognition service. Used only to infer vertical
	// position; never persisted.
	BoundingBox []Point `json:"bounding_box,omitempty"`
}

// Top returns the vertical coordinate of the fragment's first bounding-box
// point, or 0 when no bounding box was reported.
func (f Fragment) Top() int {
	if len(f.BoundingBox) == 0 {
		return 0
	}
	return f.BoundingBox[0].Y
}

// Recognizer extracts text fragments from a single image.
type Recognizer interface {
	// DetectFragments performs OCR on one image and returns per-block
	// fragments in reading order as produced by the recognition pass.
	// languageHint may be empty; when set it biases recognition accuracy
	// for the given language code.
	DetectFragments(ctx context.Context, image []byte, languageHint string) ([]Fragment, error)
}
