package llmprovider

import (
	"context"
	"fmt"
	"time"

	"notion-task-intake/pkg/log"
)

// Config controls retries and fallback across providers.
type Config struct {
	FallbackEnabled bool
	RetryAttempts   int           // per provider, at least 1
	RetryDelay      time.Duration // doubled after every failed attempt
	MaxTotalTimeout time.Duration // bounds the whole chain, 0 for none
}

// Manager tries providers in priority order.
type Manager struct {
	providers []Provider
	config    Config
	logger    log.Logger
}

func NewManager(providers []Provider, config *Config, logger log.Logger) *Manager {
	m := &Manager{providers: providers, logger: logger}
	if config != nil {
		m.config = *config
	}
	if m.config.RetryAttempts < 1 {
		m.config.RetryAttempts = 1
	}
	return m
}

// GenerateContent returns the first successful answer. With fallback
// disabled only the first provider is asked.
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	if m.config.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	candidates := m.providers
	if !m.config.FallbackEnabled {
		candidates = candidates[:1]
	}

	var lastErr error
	for i, p := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("llm chain stopped before provider %d of %d: %w", i+1, len(candidates), err)
		}

		resp, err := m.tryProvider(ctx, p, req)
		if err == nil {
			m.logger.Info(ctx, "llm generation succeeded",
				"provider", resp.ProviderName,
				"model", resp.ModelName,
				"input_tokens", resp.Usage.InputTokens,
				"output_tokens", resp.Usage.OutputTokens,
			)
			return resp, nil
		}

		m.logger.Warn(ctx, "llm provider failed",
			"provider", p.Name(),
			"model", p.Model(),
			"error", err.Error(),
		)
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %w", ErrAllProvidersFailed, lastErr)
}

// tryProvider retries one provider while the failure looks transient.
func (m *Manager) tryProvider(ctx context.Context, p Provider, req *Request) (*Response, error) {
	delay := m.config.RetryDelay
	attempt := 0
	for {
		attempt++
		resp, err := p.GenerateContent(ctx, req)
		if err == nil {
			if resp.ProviderName == "" {
				resp.ProviderName = p.Name()
			}
			if resp.ModelName == "" {
				resp.ModelName = p.Model()
			}
			return resp, nil
		}

		if attempt >= m.config.RetryAttempts || !Retryable(err) || ctx.Err() != nil {
			return nil, &ProviderError{Provider: p.Name(), Attempts: attempt, Err: err}
		}

		m.logger.Debugf(ctx, "llm provider %s attempt %d failed, retrying in %s: %v", p.Name(), attempt, delay, err)
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, &ProviderError{Provider: p.Name(), Attempts: attempt, Err: ctx.Err()}
			}
			delay *= 2
		}
	}
}
