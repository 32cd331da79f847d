// Package render rasterizes PDF pages into bitmaps for OCR.
//
// Recognition accuracy improves when pages are rendered above native size;
// the default scale factor of 1.5x is the tradeoff between recognition
// quality and processing cost. Rendering is delegated to poppler's pdftoppm,
// with pdfcpu used for validation and page counting.
package render

import (
	"context"
)

// DefaultScale is the default magnification factor for page rasterization.
const DefaultScale = 1.5

// baseDPI is the PDF native resolution; the render scale multiplies it.
const baseDPI = 72

// Renderer turns single pages of a PDF document into bitmaps.
type Renderer interface {
	// PageCount returns the number of pages in the document.
	PageCount(ctx context.Context, pdf []byte) (int, error)

	// RenderPage rasterizes one page (1-based index) at the configured scale
	// and returns the encoded PNG bytes.
	RenderPage(ctx context.Context, pdf []byte, page int) ([]byte, error)
}
