package translate

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	translatev2 "google.golang.org/api/translate/v2"

	"samvad/internal/logger"
)

// GoogleTranslator implements MachineTranslator using the Google Translate
// v2 API. It produces the literal draft that the refinement stage polishes.
type GoogleTranslator struct {
	service *translatev2.Service
	log     zerolog.Logger
}

// NewGoogleTranslator creates a translator with credentials from environment.
// It expects either GOOGLE_CREDENTIALS JSON, a GOOGLE_APPLICATION_CREDENTIALS
// path, or application default credentials.
func NewGoogleTranslator(ctx context.Context) (*GoogleTranslator, error) {
	const op = "NewGoogleTranslator"

	var service *translatev2.Service
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		service, err = translatev2.NewService(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapTranslationError(op, err, "failed to create service with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		service, err = translatev2.NewService(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapTranslationError(op, err, "failed to create service with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		service, err = translatev2.NewService(ctx)
		if err != nil {
			return nil, WrapTranslationError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return NewGoogleTranslatorWithService(service), nil
}

// NewGoogleTranslatorWithService creates a translator with an explicit service (for testing).
func NewGoogleTranslatorWithService(service *translatev2.Service) *GoogleTranslator {
	return &GoogleTranslator{
		service: service,
		log:     logger.WithComponent("translate"),
	}
}

// Translate returns a literal translation of text into the target language.
// Source language is detected by the API.
func (g *GoogleTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	const op = "Translate"

	if text == "" {
		return "", NewTranslationError(op, ErrEmptyText, "")
	}

	resp, err := g.service.Translations.List([]string{text}, targetLanguage).
		Format("text").
		Context(ctx).
		Do()
	if err != nil {
		return "", WrapTranslationError(op, ErrTranslationFailed, err.Error())
	}

	if len(resp.Translations) == 0 {
		return "", NewTranslationError(op, ErrTranslationFailed, "no translations in response")
	}

	g.log.Debug().
		Str("target_language", targetLanguage).
		Int("input_chars", len(text)).
		Msg("Machine translation completed")

	return resp.Translations[0].TranslatedText, nil
}
