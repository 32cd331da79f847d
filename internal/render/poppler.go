package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog"

	"samvad/internal/logger"
)

// PopplerRenderer implements Renderer by shelling out to pdftoppm.
type PopplerRenderer struct {
	dpi int
	log zerolog.Logger
}

// NewPopplerRenderer creates a renderer at the given magnification factor.
// A scale below 1.0 falls back to DefaultScale.
func NewPopplerRenderer(scale float64) (*PopplerRenderer, error) {
	if scale < 1.0 {
		scale = DefaultScale
	}

	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return nil, ErrRendererUnavailable
	}

	return &PopplerRenderer{
		dpi: int(baseDPI * scale),
		log: logger.WithComponent("render"),
	}, nil
}

// PageCount reports the number of pages in the document.
func (r *PopplerRenderer) PageCount(ctx context.Context, pdf []byte) (int, error) {
	const op = "PageCount"

	if err := validatePDF(pdf); err != nil {
		return 0, NewRenderError(op, 0, err, "")
	}

	count, err := api.PageCount(bytes.NewReader(pdf), nil)
	if err != nil {
		return 0, NewRenderError(op, 0, ErrInvalidPDF, err.Error())
	}

	return count, nil
}

// RenderPage rasterizes one page to PNG at the configured DPI.
func (r *PopplerRenderer) RenderPage(ctx context.Context, pdf []byte, page int) ([]byte, error) {
	const op = "RenderPage"

	if err := validatePDF(pdf); err != nil {
		return nil, NewRenderError(op, page, err, "")
	}
	if page < 1 {
		return nil, NewRenderError(op, page, ErrPageOutOfRange, "")
	}

	tempDir, err := os.MkdirTemp("", "samvad_render_*")
	if err != nil {
		return nil, NewRenderError(op, page, err, "failed to create temp dir")
	}
	defer func() {
		if removeErr := os.RemoveAll(tempDir); removeErr != nil {
			r.log.Warn().Err(removeErr).Msg("Failed to remove render temp dir")
		}
	}()

	pdfPath := filepath.Join(tempDir, "input.pdf")
	if err := os.WriteFile(pdfPath, pdf, 0600); err != nil {
		return nil, NewRenderError(op, page, err, "failed to write temp PDF")
	}

	outputPrefix := filepath.Join(tempDir, fmt.Sprintf("page_%d", page))
	args := []string{
		"-f", fmt.Sprintf("%d", page),
		"-l", fmt.Sprintf("%d", page),
		"-png",
		"-r", fmt.Sprintf("%d", r.dpi),
		"-singlefile",
		pdfPath,
		outputPrefix,
	}

	cmd := exec.CommandContext(ctx, "pdftoppm", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, NewRenderError(op, page, ErrRenderFailed, fmt.Sprintf("pdftoppm: %v: %s", err, output))
	}

	image, err := os.ReadFile(outputPrefix + ".png")
	if err != nil {
		return nil, NewRenderError(op, page, ErrRenderFailed, "pdftoppm produced no output")
	}

	r.log.Debug().
		Int("page", page).
		Int("dpi", r.dpi).
		Int("bytes", len(image)).
		Msg("page rendered")

	return image, nil
}

// validatePDF performs the cheap header check before handing data to the backend.
func validatePDF(pdf []byte) error {
	if len(pdf) < 4 || string(pdf[:4]) != "%PDF" {
		return ErrInvalidPDF
	}
	return nil
}
