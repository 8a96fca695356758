package llm

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiModel is the model used for every call on the direct path. The
// registry's backend id for the direct entry is an OpenRouter identifier and
// is not meaningful to the Gemini API.
const GeminiModel = "gemini-2.0-flash"

// GeminiClient is the direct backend. Unlike OpenRouter it does not accept
// multi-turn history, so Complete collapses the request to the system turn
// plus the latest user turn.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, err
	}

	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	var system *Message
	var lastUser *Message
	for idx := range messages {
		switch messages[idx].Role {
		case RoleSystem:
			system = &messages[idx]
		case RoleUser:
			lastUser = &messages[idx]
		}
	}

	if lastUser == nil {
		return "", errors.New("no user message in request")
	}

	var parts []*genai.Part
	if system != nil {
		parts = append(parts, genai.NewPartFromText(system.Text+"\n\n"))
	}

	parts = append(parts, genai.NewPartFromText(lastUser.Text))
	if lastUser.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(lastUser.Image, "image/jpeg"))
	}

	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: parts,
	}}

	zap.L().Debug("gemini request", zap.Int("parts", len(parts)))
	resp, err := c.client.Models.GenerateContent(ctx, GeminiModel, contents, nil)
	if err != nil {
		zap.L().Error("gemini request failed", zap.Error(err))
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in gemini response")
	}

	return resp.Text(), nil
}
