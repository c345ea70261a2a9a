// Package chatcompletion talks to OpenAI-compatible /chat/completions
// endpoints. Qwen (DashScope compatible mode) and DeepSeek both serve this API.
package chatcompletion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout applies when Config.HTTPClient is nil.
const DefaultTimeout = 30 * time.Second

// ErrNoChoices is returned when a 2xx answer carries no choice.
var ErrNoChoices = errors.New("no choices in response")

// IClient completes chat conversations. Implementations are safe for
// concurrent use.
type IClient interface {
	Complete(ctx context.Context, req Request) (*Result, error)
	Model() string
}

// New validates cfg and builds a client.
func New(cfg Config) (IClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &client{
		provider:   cfg.Provider,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		endpoint:   cfg.BaseURL + "/chat/completions",
		httpClient: cfg.HTTPClient,
	}, nil
}

type client struct {
	provider   string
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

func (c *client) Model() string { return c.model }

// Complete sends one non-streaming completion request.
func (c *client) Complete(ctx context.Context, req Request) (*Result, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONObject {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", c.provider, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.provider, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: send request: %w", c.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.decodeError(resp)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", c.provider, err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("%s: %w", c.provider, ErrNoChoices)
	}

	model := out.Model
	if model == "" {
		model = c.model
	}
	choice := out.Choices[0]
	return &Result{
		Text:         choice.Message.Content,
		FinishReason: choice.FinishReason,
		Model:        model,
		Usage:        out.Usage,
	}, nil
}

func (c *client) decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Provider: c.provider, StatusCode: resp.StatusCode}

	var envelope struct {
		Error *struct {
			Message string          `json:"message"`
			Type    string          `json:"type"`
			Code    json.RawMessage `json:"code"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Error != nil {
		apiErr.Message = envelope.Error.Message
		apiErr.Type = envelope.Error.Type
		apiErr.Code = strings.Trim(string(envelope.Error.Code), `"`)
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
