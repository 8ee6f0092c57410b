package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://api.anthropic.com/v1"
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"
	requestTimeout   = 60 * time.Second
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one system-prompted exchange with the language model.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature *float64
}

// UserRequest builds a single-turn request.
func UserRequest(system, content string, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: "user", Content: content}},
		MaxTokens: maxTokens,
	}
}

// Client calls the language model and returns its text reply.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Factory builds a Client for an API key. Callers pass the key explicitly so
// no component reads settings on its own.
type Factory func(apiKey string) (Client, error)

type Options struct {
	BaseURL    string
	Model      string
	MaxTokens  int
	HTTPClient *http.Client
}

type AnthropicClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func NewAnthropicClient(apiKey string, opts Options) (*AnthropicClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyRequired
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: requestTimeout}
	}
	return &AnthropicClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		model:      opts.Model,
		maxTokens:  opts.MaxTokens,
		httpClient: opts.HTTPClient,
	}, nil
}

// NewFactory returns a Factory producing AnthropicClients with opts.
func NewFactory(opts Options) Factory {
	return func(apiKey string) (Client, error) {
		return NewAnthropicClient(apiKey, opts)
	}
}

type messagesBody struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type messagesReply struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type errorReply struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete performs a single round trip. Failures are not retried; callers
// recover with their local heuristics instead.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	if len(req.Messages) == 0 {
		return "", newError(CodeParse, "request has no messages", nil)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	payload, err := json.Marshal(messagesBody{
		Model:       c.model,
		System:      req.System,
		Messages:    req.Messages,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", newError(CodeParse, "encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return "", newError(CodeNetwork, "build request", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", newError(CodeNetwork, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", newError(CodeNetwork, "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp.StatusCode, body)
	}

	var reply messagesReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", newError(CodeParse, "decode response", err)
	}
	var text strings.Builder
	for _, part := range reply.Content {
		if part.Type == "text" {
			text.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", newError(CodeEmptyResponse, "model returned no text", nil)
	}
	return text.String(), nil
}

func statusError(status int, body []byte) *EngineError {
	code := CodeHTTPStatus
	if status == http.StatusTooManyRequests {
		code = CodeRateLimited
	}
	msg := fmt.Sprintf("HTTP %d", status)
	var reply errorReply
	if err := json.Unmarshal(body, &reply); err == nil && reply.Error.Message != "" {
		msg += ": " + reply.Error.Message
	}
	return &EngineError{Code: code, Message: msg, StatusCode: status}
}
