// internal/aiclient/client.go
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	defaultModel = "deepseek/deepseek-r1-0528:free"
	maxTokens    = 800
	temperature  = 0.7

	refererHeader = "http://localhost:8080"
	titleHeader   = "Expense Tracker AI"
)

// ErrEmptyResponse signals that the provider returned neither content nor
// reasoning text.
var ErrEmptyResponse = errors.New("empty content in API response")

// ParseError marks a response envelope missing the expected structure.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "invalid response structure: " + e.Reason
}

// StatusError carries an upstream non-2xx status so handlers can forward it.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
}

// UnavailableError wraps network or timeout failures reaching the provider.
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	return "AI service unreachable: " + e.Cause.Error()
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

type Config struct {
	APIKey         string
	BaseURL        string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// Client talks to an OpenRouter-style chat-completions endpoint. One attempt
// per call; nothing is retried.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

func New(cfg Config) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   defaultModel,
		http: &http.Client{
			Timeout: cfg.ReadTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
			},
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content   string `json:"content"`
			Reasoning string `json:"reasoning"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one prompt and extracts the answer text from the response
// envelope.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", refererHeader)
	req.Header.Set("X-Title", titleHeader)

	slog.Info("Calling AI completion API", "url", c.baseURL, "prompt_len", len(prompt))
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("AI API call failed", "error", err)
		return "", &UnavailableError{Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UnavailableError{Cause: err}
	}

	slog.Info("AI API call completed", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	return extractContent(respBody)
}

// extractContent pulls the first choice's message content, falling back to
// the reasoning field (deepseek-r1 models leave content empty on some
// responses).
func extractContent(body []byte) (string, error) {
	var envelope chatResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", &ParseError{Reason: "malformed JSON: " + err.Error()}
	}
	if len(envelope.Choices) == 0 {
		return "", &ParseError{Reason: "missing choices array"}
	}
	msg := envelope.Choices[0].Message
	if msg == nil {
		return "", &ParseError{Reason: "missing message in choice"}
	}

	content := msg.Content
	if strings.TrimSpace(content) == "" {
		slog.Debug("Content empty, using reasoning field instead")
		content = msg.Reasoning
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
