// Package provider implements the generation-service boundary over
// OpenAI-compatible chat completion APIs.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"tokbot/internal/domain"
)

// OpenAI implements domain.Completer over any OpenAI-compatible
// chat-completions API (OpenAI itself, Ollama's /v1 endpoint, vLLM, etc.).
// No streaming; one request, one answer.
type OpenAI struct {
	name    string
	apiKey  string
	apiBase string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

type OpenAIConfig struct {
	Name    string // provider name reported in errors and logs
	APIKey  string
	APIBase string
	Model   string
	Client  *http.Client
	Logger  *slog.Logger
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.Name == "" {
		cfg.Name = "openai"
	}
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Client == nil {
		cfg.Client = SharedHTTPClient(0)
	}
	return &OpenAI{
		name:    cfg.Name,
		apiKey:  cfg.APIKey,
		apiBase: cfg.APIBase,
		model:   cfg.Model,
		client:  cfg.Client,
		logger:  cfg.Logger,
	}
}

func (o *OpenAI) Name() string { return o.name }

func (o *OpenAI) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", o.apiBase+"/models", nil)
	if err != nil {
		return err
	}
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s not reachable: %w", o.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: invalid API key", o.name)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", o.name, resp.StatusCode)
	}
	return nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete issues one chat completion and returns the answer text. Every
// failure mode is wrapped in a domain.GenerationError naming this provider
// and the failing stage, so callers can degrade without inspecting HTTP
// details.
func (o *OpenAI) Complete(ctx context.Context, systemPrompt, userText string, temperature float64, maxTokens int) (string, error) {
	body := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
		Stream: false,
	}
	if maxTokens > 0 {
		body.MaxTokens = maxTokens
	}
	if temperature >= 0 {
		body.Temperature = &temperature
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", &domain.GenerationError{Provider: o.name, Stage: "marshal", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.apiBase+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", &domain.GenerationError{Provider: o.name, Stage: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return "", &domain.GenerationError{Provider: o.name, Stage: "transport", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &domain.GenerationError{
			Provider: o.name,
			Stage:    "http",
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &domain.GenerationError{Provider: o.name, Stage: "decode", Err: err}
	}
	if out.Error != nil {
		return "", &domain.GenerationError{
			Provider: o.name,
			Stage:    "api",
			Err:      fmt.Errorf("%s: %s", out.Error.Type, out.Error.Message),
		}
	}
	if len(out.Choices) == 0 {
		return "", &domain.GenerationError{Provider: o.name, Stage: "decode", Err: fmt.Errorf("no choices in response")}
	}

	return out.Choices[0].Message.Content, nil
}
