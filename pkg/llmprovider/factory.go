package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"notion-task-intake/config"
	"notion-task-intake/pkg/deepseek"
	"notion-task-intake/pkg/gemini"
	"notion-task-intake/pkg/log"
	"notion-task-intake/pkg/qwen"
)

// InitializeProviders builds the enabled providers in ascending priority.
// A provider that cannot be built is logged and skipped; it is an error only
// when none is left.
func InitializeProviders(ctx context.Context, l log.Logger, cfg *config.LLMConfig) ([]Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil LLM config", ErrInvalidRequest)
	}

	enabled := make([]config.ProviderConfig, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return nil, ErrNoProvidersConfigured
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	var (
		providers []Provider
		errs      []error
	)
	for _, pc := range enabled {
		p, err := newProvider(pc)
		if err != nil {
			l.Warnf(ctx, "llmprovider.InitializeProviders: skip %s (priority %d): %v", pc.Name, pc.Priority, err)
			errs = append(errs, err)
			continue
		}
		providers = append(providers, p)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrNoProvidersConfigured, errors.Join(errs...))
	}
	return providers, nil
}

func newProvider(pc config.ProviderConfig) (Provider, error) {
	if pc.APIKey == "" {
		return nil, fmt.Errorf("provider %s: API key is required", pc.Name)
	}
	if pc.Model == "" {
		return nil, fmt.Errorf("provider %s: model is required", pc.Name)
	}

	var httpClient *http.Client
	if pc.Timeout > 0 {
		httpClient = &http.Client{Timeout: pc.Timeout}
	}

	switch pc.Name {
	case "gemini":
		c, err := gemini.New(gemini.Config{APIKey: pc.APIKey, Model: pc.Model, APIURL: pc.BaseURL, HTTPClient: httpClient})
		if err != nil {
			return nil, err
		}
		return NewGeminiAdapter(c), nil

	case "qwen", "alibaba":
		c, err := qwen.New(qwen.Config{APIKey: pc.APIKey, Model: pc.Model, BaseURL: pc.BaseURL, HTTPClient: httpClient})
		if err != nil {
			return nil, err
		}
		return NewChatAdapter("qwen", c), nil

	case "deepseek":
		c, err := deepseek.New(deepseek.Config{APIKey: pc.APIKey, Model: pc.Model, BaseURL: pc.BaseURL, HTTPClient: httpClient})
		if err != nil {
			return nil, err
		}
		return NewChatAdapter("deepseek", c), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", pc.Name)
	}
}
