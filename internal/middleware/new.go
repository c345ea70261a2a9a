package middleware

import (
	"notion-task-intake/pkg/log"
)

// Config holds the settings the middlewares need.
type Config struct {
	AuthHeader      string // header carrying the shared secret, e.g. "x-api-key"
	APIKey          string
	RateLimitPerMin int // 0 disables rate limiting
}

type Middleware struct {
	l          log.Logger
	authHeader string
	apiKey     string
	limiter    *rateLimiter
}

func New(l log.Logger, cfg Config) Middleware {
	header := cfg.AuthHeader
	if header == "" {
		header = DefaultAuthHeader
	}

	mw := Middleware{
		l:          l,
		authHeader: header,
		apiKey:     cfg.APIKey,
	}
	if cfg.RateLimitPerMin > 0 {
		mw.limiter = newRateLimiter(cfg.RateLimitPerMin)
	}
	return mw
}
