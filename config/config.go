package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig `mapstructure:"environment"`

	HTTPServer HTTPServerConfig `mapstructure:"http_server"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Auth       AuthConfig       `mapstructure:"auth"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`

	Notion NotionConfig `mapstructure:"notion"`
	Date   DateConfig   `mapstructure:"date"`

	// Optional integrations
	Telegram       TelegramConfig       `mapstructure:"telegram"`
	GoogleCalendar GoogleCalendarConfig `mapstructure:"google_calendar"`

	LLM LLMConfig `mapstructure:"llm"`
}

type EnvironmentConfig struct {
	Name string `mapstructure:"name"`
}

type HTTPServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type LoggerConfig struct {
	Level        string `mapstructure:"level"`
	Mode         string `mapstructure:"mode"`
	Encoding     string `mapstructure:"encoding"`
	ColorEnabled bool   `mapstructure:"color_enabled"`
}

// AuthConfig holds the shared secret checked on every non-health route.
type AuthConfig struct {
	Header string `mapstructure:"header"`
	APIKey string `mapstructure:"api_key"`
}

type RateLimitConfig struct {
	PerMin int `mapstructure:"per_min"`
}

type NotionConfig struct {
	APIKey     string `mapstructure:"api_key"`
	DatabaseID string `mapstructure:"database_id"`
	APIURL     string `mapstructure:"api_url"`
	Version    string `mapstructure:"version"`
}

type DateConfig struct {
	Timezone string `mapstructure:"timezone"`
}

type TelegramConfig struct {
	BotToken      string `mapstructure:"bot_token"`
	WebhookURL    string `mapstructure:"webhook_url"`
	WebhookSecret string `mapstructure:"webhook_secret"` // echoed by Telegram in X-Telegram-Bot-Api-Secret-Token
}

type GoogleCalendarConfig struct {
	CredentialsPath string `mapstructure:"credentials_path"`
	CalendarID      string `mapstructure:"calendar_id"`
}

// LLMConfig lists the providers and the retry policy shared by all of them.
type LLMConfig struct {
	Providers       []ProviderConfig `mapstructure:"providers"`
	FallbackEnabled bool             `mapstructure:"fallback_enabled"`
	RetryAttempts   int              `mapstructure:"retry_attempts"`
	RetryDelay      time.Duration    `mapstructure:"retry_delay"`
	MaxTotalTimeout time.Duration    `mapstructure:"max_total_timeout"`
}

// ProviderConfig is one entry of llm.providers. Lower priority runs first.
// APIKey may reference the environment, e.g. "${QWEN_API_KEY}".
type ProviderConfig struct {
	Name     string        `mapstructure:"name"`
	Enabled  bool          `mapstructure:"enabled"`
	Priority int           `mapstructure:"priority"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// envAliases binds keys to extra environment names kept for existing deployments.
var envAliases = map[string][]string{
	"auth.api_key":                     {"AUTH_API_KEY", "API_KEY"},
	"notion.api_key":                   {"NOTION_API_KEY"},
	"notion.database_id":               {"NOTION_DATABASE_ID"},
	"telegram.bot_token":               {"TELEGRAM_BOT_TOKEN"},
	"telegram.webhook_url":             {"TELEGRAM_WEBHOOK_URL"},
	"telegram.webhook_secret":          {"TELEGRAM_WEBHOOK_SECRET"},
	"google_calendar.credentials_path": {"GOOGLE_CALENDAR_CREDENTIALS_PATH", "GOOGLE_CALENDAR_CREDENTIALS"},
	"google_calendar.calendar_id":      {"GOOGLE_CALENDAR_CALENDAR_ID"},
}

// Load reads config.yaml from ./config, . or /etc/app/ and applies
// environment overrides (NOTION_API_KEY for notion.api_key and so on).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/app/")
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	for key, envs := range envAliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	for i := range cfg.LLM.Providers {
		cfg.LLM.Providers[i].APIKey = os.ExpandEnv(cfg.LLM.Providers[i].APIKey)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Notion.APIKey == "" {
		return fmt.Errorf("notion.api_key is required")
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("notion.database_id is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Date.Timezone != "" {
		if _, err := time.LoadLocation(c.Date.Timezone); err != nil {
			return fmt.Errorf("date.timezone: %w", err)
		}
	}
	return c.LLM.Validate()
}

// Validate requires at least one enabled provider, each with a model and a
// distinct positive priority.
func (c *LLMConfig) Validate() error {
	seen := make(map[int]string)
	enabled := 0
	for i, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("llm.providers[%d]: name is required", i)
		}
		if p.Model == "" {
			return fmt.Errorf("llm provider %s: model is required", p.Name)
		}
		if !p.Enabled {
			continue
		}
		enabled++
		if p.Priority <= 0 {
			return fmt.Errorf("llm provider %s: priority must be positive", p.Name)
		}
		if other, dup := seen[p.Priority]; dup {
			return fmt.Errorf("llm provider %s: priority %d already used by %s", p.Name, p.Priority, other)
		}
		seen[p.Priority] = p.Name
		if p.Timeout < 0 {
			return fmt.Errorf("llm provider %s: negative timeout", p.Name)
		}
	}
	if enabled == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("auth.header", "x-api-key")
	v.SetDefault("rate_limit.per_min", 60)

	v.SetDefault("notion.api_url", "https://api.notion.com/v1")
	v.SetDefault("notion.version", "2022-06-28")
	v.SetDefault("date.timezone", "UTC")

	v.SetDefault("google_calendar.calendar_id", "primary")

	v.SetDefault("llm.fallback_enabled", true)
	v.SetDefault("llm.retry_attempts", 1)
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.max_total_timeout", "60s")
}
