package ocr

import (
	"bytes"
	"context"
	"os"

	vision "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// MaxFragmentResults caps the number of annotations requested per image.
const MaxFragmentResults = 2048

// GoogleVisionRecognizer implements Recognizer using Google Cloud Vision
// text detection.
type GoogleVisionRecognizer struct {
	client *vision.ImageAnnotatorClient
}

// NewGoogleVisionRecognizer creates a recognizer with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env.
func NewGoogleVisionRecognizer(ctx context.Context) (Recognizer, error) {
	const op = "NewGoogleVisionRecognizer"

	var client *vision.ImageAnnotatorClient
	var err error

	// Check for inline credentials first
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapRecognitionError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapRecognitionError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapRecognitionError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &GoogleVisionRecognizer{
		client: client,
	}, nil
}

// NewGoogleVisionRecognizerWithClient creates a recognizer with an explicit client (for testing).
func NewGoogleVisionRecognizerWithClient(client *vision.ImageAnnotatorClient) Recognizer {
	return &GoogleVisionRecognizer{
		client: client,
	}
}

// DetectFragments performs text detection on a single image and returns the
// per-block fragments in the order Vision reports them, which approximates
// natural reading order.
func (g *GoogleVisionRecognizer) DetectFragments(ctx context.Context, image []byte, languageHint string) ([]Fragment, error) {
	const op = "DetectFragments"

	if len(image) == 0 {
		return nil, WrapRecognitionError(op, ErrEmptyImage, "")
	}

	img, err := vision.NewImageFromReader(bytes.NewReader(image))
	if err != nil {
		return nil, WrapRecognitionError(op, err, "failed to prepare image")
	}

	var imageCtx *visionpb.ImageContext
	if languageHint != "" {
		imageCtx = &visionpb.ImageContext{
			LanguageHints: []string{languageHint},
		}
	}

	annotations, err := g.client.DetectTexts(ctx, img, imageCtx, MaxFragmentResults)
	if err != nil {
		return nil, WrapRecognitionError(op, ErrRecognitionFailed, err.Error())
	}

	return fragmentsFromAnnotations(annotations), nil
}

// fragmentsFromAnnotations converts Vision text annotations into fragments.
// The first annotation is a synthetic aggregate covering the whole image and
// is skipped; only the individual block entries are kept.
func fragmentsFromAnnotations(annotations []*visionpb.EntityAnnotation) []Fragment {
	if len(annotations) <= 1 {
		return nil
	}

	fragments := make([]Fragment, 0, len(annotations)-1)
	for _, annotation := range annotations[1:] {
		if annotation.GetDescription() == "" {
			continue
		}

		fragment := Fragment{
			Text: annotation.GetDescription(),
		}
		if poly := annotation.GetBoundingPoly(); poly != nil {
			for _, vertex := range poly.GetVertices() {
				fragment.BoundingBox = append(fragment.BoundingBox, Point{
					X: int(vertex.GetX()),
					Y: int(vertex.GetY()),
				})
			}
		}

		fragments = append(fragments, fragment)
	}

	return fragments
}

// Close closes the underlying Vision client.
func (g *GoogleVisionRecognizer) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
