package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

// OpenAIClient talks to the OpenAI chat-completions API.
type OpenAIClient struct {
	APIKey      string
	Model       string
	BaseURL     string // override for tests/proxies; defaults to api.openai.com
	MaxTokens   int
	Temperature float64
	HTTP        *http.Client
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the history to /v1/chat/completions and returns the first
// choice. The optional system instruction is prepended as a system-role
// message.
func (c *OpenAIClient) Complete(ctx context.Context, system string, msgs []Message) (string, error) {
	payload := openAIRequest{
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	}
	if system != "" {
		payload.Messages = append(payload.Messages, openAIMessage{Role: "system", Content: system})
	}
	for _, m := range msgs {
		payload.Messages = append(payload.Messages, openAIMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrProviderFailure, err)
	}

	base := c.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrProviderFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrProviderFailure, err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response (status %d)", ErrProviderFailure, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		detail := ""
		if parsed.Error != nil {
			detail = parsed.Error.Message
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrProviderFailure, resp.StatusCode, detail)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrProviderFailure)
	}
	return parsed.Choices[0].Message.Content, nil
}
