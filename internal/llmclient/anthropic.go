// Package llmclient provides concrete HTTP backends for internal/llm.Provider,
// grounded on the teacher's internal/llm adapters but narrowed to this
// project's single-shot-text contract: no tool calling, just a directive
// string in, a directive string out.
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vinayprograms/hma-agent/internal/llm"
)

// Anthropic implements llm.Provider against the Claude Messages API.
type Anthropic struct {
	apiKey string
	model  string
	client *http.Client
	baseURL string
}

// NewAnthropic constructs an Anthropic backend.
func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
		baseURL: "https://api.anthropic.com/v1",
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string              `json:"model"`
	Messages    []anthropicMessage  `json:"messages"`
	System      string              `json:"system,omitempty"`
	MaxTokens   int                 `json:"max_tokens"`
	Temperature float64             `json:"temperature"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

type anthropicErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateResponse implements llm.Provider.
func (a *Anthropic) GenerateResponse(ctx context.Context, messages []llm.Message, temperature float64, maxTokens int) (string, error) {
	var system string
	var msgs []anthropicMessage
	for _, m := range messages {
		if m.Role == "system" {
			system += m.Content + "\n"
			continue
		}
		msgs = append(msgs, anthropicMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(anthropicRequest{
		Model:       a.model,
		Messages:    msgs,
		System:      system,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr anthropicErrorBody
		_ = json.Unmarshal(raw, &apiErr)
		if apiErr.Error.Message != "" {
			return "", fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(raw))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	var out string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out, nil
}
