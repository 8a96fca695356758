package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// OpenRouterClient talks to the OpenRouter chat completions API, which is
// OpenAI-compatible on the wire.
type OpenRouterClient struct {
	Endpoint string
	Token    string
	SiteURL  string
	SiteName string
}

type OpenRouterResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewOpenRouterClient(endpoint string, token string, siteURL string, siteName string) *OpenRouterClient {
	provider := &OpenRouterClient{
		Endpoint: endpoint,
		Token:    token,
		SiteURL:  siteURL,
		SiteName: siteName,
	}

	return provider
}

func (c *OpenRouterClient) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	wireMessages := make([]map[string]any, 0, len(messages))
	for _, message := range messages {
		if message.Text == "" && message.Image == nil {
			continue
		}

		wireMessage := map[string]any{
			"role":    string(message.Role),
			"content": message.Text,
		}

		if message.Image != nil {
			encoded := base64.StdEncoding.EncodeToString(message.Image)
			wireMessage["content"] = []map[string]any{
				{
					"type": "text",
					"text": message.Text,
				},
				{
					"type": "image_url",
					"image_url": map[string]string{
						"url": "data:image/jpeg;base64," + encoded,
					},
				},
			}
		}

		wireMessages = append(wireMessages, wireMessage)
	}

	requestBody := map[string]any{
		"model":    model,
		"messages": wireMessages,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	zap.L().Debug("openrouter request", zap.String("model", model), zap.Int("messages", len(wireMessages)))
	req, err := http.NewRequestWithContext(ctx, "POST", c.Endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("HTTP-Referer", c.SiteURL)
	req.Header.Set("X-Title", c.SiteName)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 180 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		zap.L().Error("openrouter request failed", zap.Error(err))
		return "", err
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.New(string(body))
	}

	var result OpenRouterResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", errors.New("no choices in openrouter response")
	}

	return result.Choices[0].Message.Content, nil
}
