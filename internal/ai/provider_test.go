package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/teamchat/go-team-chat/internal/config"
)

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider(config.AIConfig{Provider: "openai"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured without API key, got %v", err)
	}

	p, err := NewProvider(config.AIConfig{Provider: "openai", APIKey: "k", Timeout: time.Second})
	if err != nil {
		t.Fatalf("openai: %v", err)
	}
	if _, ok := p.(*OpenAIClient); !ok {
		t.Fatalf("expected *OpenAIClient, got %T", p)
	}

	p, err = NewProvider(config.AIConfig{Provider: "anthropic", APIKey: "k", Timeout: time.Second})
	if err != nil {
		t.Fatalf("anthropic: %v", err)
	}
	if _, ok := p.(*AnthropicClient); !ok {
		t.Fatalf("expected *AnthropicClient, got %T", p)
	}

	if _, err := NewProvider(config.AIConfig{Provider: "other", APIKey: "k"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestOpenAIClient_Complete(t *testing.T) {
	var gotAuth string
	var gotReq openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hi there"}},
			},
		})
	}))
	defer srv.Close()

	c := &OpenAIClient{
		APIKey:      "test-key",
		Model:       "gpt-3.5-turbo",
		BaseURL:     srv.URL,
		MaxTokens:   1000,
		Temperature: 0.7,
		HTTP:        srv.Client(),
	}

	reply, err := c.Complete(context.Background(), "be brief", []Message{
		{Role: RoleUser, Content: "hello"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "hi there" {
		t.Fatalf("reply = %q", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotReq.Model != "gpt-3.5-turbo" || gotReq.MaxTokens != 1000 {
		t.Fatalf("request = %+v", gotReq)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Content != "hello" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
}

func TestOpenAIClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer srv.Close()

	c := &OpenAIClient{APIKey: "k", BaseURL: srv.URL, HTTP: srv.Client()}
	_, err := c.Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "x"}})
	if !errors.Is(err, ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}

func TestAnthropicClient_Complete(t *testing.T) {
	var gotKey, gotVersion string
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": "hello back"},
			},
		})
	}))
	defer srv.Close()

	c := &AnthropicClient{
		APIKey:    "anthro-key",
		Model:     "claude-3",
		BaseURL:   srv.URL,
		MaxTokens: 1000,
		HTTP:      srv.Client(),
	}

	reply, err := c.Complete(context.Background(), "topic context", []Message{
		{Role: RoleUser, Content: "hello"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "hello back" {
		t.Fatalf("reply = %q", reply)
	}
	if gotKey != "anthro-key" || gotVersion != anthropicVersion {
		t.Fatalf("headers = %q, %q", gotKey, gotVersion)
	}
	if gotReq.System != "topic context" || len(gotReq.Messages) != 1 {
		t.Fatalf("request = %+v", gotReq)
	}
}

func TestAnthropicClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := &AnthropicClient{APIKey: "k", BaseURL: srv.URL, HTTP: srv.Client()}
	_, err := c.Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "x"}})
	if !errors.Is(err, ErrProviderFailure) {
		t.Fatalf("expected ErrProviderFailure, got %v", err)
	}
}
