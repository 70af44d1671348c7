// Package ai implements the completion providers behind the assistant chat
// surface. Providers share one small contract: turn a role-tagged message
// history plus an optional system instruction into a single reply string.
// The HTTP specifics of each vendor stay inside this package.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/teamchat/go-team-chat/internal/config"
)

// Message roles understood by every provider.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrProviderFailure is returned when the upstream completion API rejects
// the request, times out, or answers with a body we cannot use. Handlers
// map it to 502.
var ErrProviderFailure = errors.New("completion provider failure")

// ErrNotConfigured is returned when no API key is set and the assistant
// surface is disabled.
var ErrNotConfigured = errors.New("completion provider not configured")

// Message is a single role-tagged utterance in the history sent upstream.
type Message struct {
	Role    string
	Content string
}

// Provider produces one assistant reply for a message history. The optional
// system string carries topic context; providers that model system
// instructions out-of-band (Anthropic) handle the mapping themselves.
type Provider interface {
	Complete(ctx context.Context, system string, msgs []Message) (string, error)
}

// NewProvider builds the configured provider. It returns ErrNotConfigured
// when the API key is empty so the caller can disable the route instead of
// failing per request.
func NewProvider(cfg config.AIConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	switch cfg.Provider {
	case "openai":
		return &OpenAIClient{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			HTTP:        httpClient,
		}, nil
	case "anthropic":
		return &AnthropicClient{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			BaseURL:   cfg.BaseURL,
			MaxTokens: cfg.MaxTokens,
			HTTP:      httpClient,
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
