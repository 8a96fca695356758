package translate

import (
	"context"
	"errors"

	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// Translator turns text into the target language. Implementations must not
// be relied on for correctness of the reply path: any failure falls back to
// the untranslated text at the call site.
type Translator interface {
	Translate(ctx context.Context, text string, targetLanguage string) (string, error)
}

// Noop passes text through unchanged. Used when no translation credentials
// are configured, which is a valid, expected state.
type Noop struct{}

func (Noop) Translate(_ context.Context, text string, _ string) (string, error) {
	return text, nil
}

// GoogleTranslator uses the Google Cloud Translation v2 API.
type GoogleTranslator struct {
	client *translate.Client
}

func NewGoogleTranslator(ctx context.Context, apiKey string) (*GoogleTranslator, error) {
	client, err := translate.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &GoogleTranslator{client: client}, nil
}

func (t *GoogleTranslator) Translate(ctx context.Context, text string, targetLanguage string) (string, error) {
	target, err := language.Parse(targetLanguage)
	if err != nil {
		return "", err
	}

	translations, err := t.client.Translate(ctx, []string{text}, target, nil)
	if err != nil {
		return "", err
	}

	if len(translations) == 0 {
		return "", errors.New("empty translation response")
	}

	return translations[0].Text, nil
}
