package chatcompletion

import (
	"fmt"
	"net/http"
	"strings"
)

// Config configures one OpenAI-compatible endpoint.
type Config struct {
	Provider   string // prefix for errors, e.g. "qwen"
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

func (c *Config) Validate() error {
	if c.Provider == "" {
		c.Provider = "chatcompletion"
	}
	if c.APIKey == "" {
		return fmt.Errorf("%s: APIKey is required", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("%s: Model is required", c.Provider)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%s: BaseURL is required", c.Provider)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// Message is one chat turn. Role is "system", "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
	JSONObject  bool // response_format json_object
}

type Result struct {
	Text         string
	FinishReason string
	Model        string
	Usage        Usage
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// APIError is a non-2xx answer.
type APIError struct {
	Provider   string
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%s: API error %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: API error %d (%s): %s", e.Provider, e.StatusCode, e.Type, e.Message)
}

// HTTPStatus exposes the status code to retry policies.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}
