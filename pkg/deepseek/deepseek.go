// Package deepseek configures a chat completion client for the DeepSeek API.
package deepseek

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

func New(cfg Config) (chatcompletion.IClient, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return chatcompletion.New(chatcompletion.Config{
		Provider:   "deepseek",
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		HTTPClient: cfg.HTTPClient,
	})
}
