package model

// Environment is config's environment.name.
type Environment string

// EnvironmentProduction hides the swagger UI.
const EnvironmentProduction Environment = "production"

// Scope identifies who submitted a request and through which channel.
type Scope struct {
	UserID   string // e.g. "telegram_42" or the API client name
	Username string
	Source   string // "http" or "telegram"
}
