// Package qwen configures a chat completion client for Alibaba's DashScope
// OpenAI-compatible mode.
package qwen

import (
	"net/http"

	"notion-task-intake/pkg/chatcompletion"
)

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// New fills in the DashScope defaults and builds the client.
func New(cfg Config) (chatcompletion.IClient, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return chatcompletion.New(chatcompletion.Config{
		Provider:   "qwen",
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		HTTPClient: cfg.HTTPClient,
	})
}
