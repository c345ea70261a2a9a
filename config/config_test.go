package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
auth:
  api_key: secret
notion:
  api_key: ntn_key
  database_id: db-1
date:
  timezone: Asia/Ho_Chi_Minh
llm:
  retry_attempts: 3
  retry_delay: 250ms
  providers:
    - name: qwen
      enabled: true
      priority: 1
      api_key: ${TEST_QWEN_KEY}
      model: qwen-plus
      timeout: 20s
    - name: gemini
      enabled: false
      priority: 2
      api_key: g
      model: gemini-2.5-flash
`

func loadYAML(t *testing.T, body string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_QWEN_KEY", "qwen-secret")

	cfg, err := loadYAML(t, sampleYAML)
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Auth.APIKey)
	assert.Equal(t, "x-api-key", cfg.Auth.Header)
	assert.Equal(t, 60, cfg.RateLimit.PerMin)
	assert.Equal(t, "https://api.notion.com/v1", cfg.Notion.APIURL)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Date.Timezone)
	assert.Equal(t, "primary", cfg.GoogleCalendar.CalendarID)

	assert.True(t, cfg.LLM.FallbackEnabled)
	assert.Equal(t, 3, cfg.LLM.RetryAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.RetryDelay)
	assert.Equal(t, 60*time.Second, cfg.LLM.MaxTotalTimeout)

	require.Len(t, cfg.LLM.Providers, 2)
	assert.Equal(t, "qwen-secret", cfg.LLM.Providers[0].APIKey)
	assert.Equal(t, 20*time.Second, cfg.LLM.Providers[0].Timeout)
	assert.False(t, cfg.LLM.Providers[1].Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NOTION_API_KEY", "from-env")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("GOOGLE_CALENDAR_CREDENTIALS", "/secrets/google.json")
	t.Setenv("RATE_LIMIT_PER_MIN", "5")

	cfg, err := loadYAML(t, `
notion:
  database_id: db-1
llm:
  providers:
    - {name: deepseek, enabled: true, priority: 1, api_key: d, model: deepseek-chat}
`)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Notion.APIKey)
	assert.Equal(t, "legacy-key", cfg.Auth.APIKey)
	assert.Equal(t, "/secrets/google.json", cfg.GoogleCalendar.CredentialsPath)
	assert.Equal(t, 5, cfg.RateLimit.PerMin)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Auth:   AuthConfig{APIKey: "k"},
			Notion: NotionConfig{APIKey: "n", DatabaseID: "db"},
			LLM: LLMConfig{Providers: []ProviderConfig{
				{Name: "qwen", Enabled: true, Priority: 1, Model: "qwen-plus"},
			}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing notion key", func(c *Config) { c.Notion.APIKey = "" }},
		{"missing database", func(c *Config) { c.Notion.DatabaseID = "" }},
		{"missing auth key", func(c *Config) { c.Auth.APIKey = "" }},
		{"bad timezone", func(c *Config) { c.Date.Timezone = "Mars/Olympus" }},
		{"no providers", func(c *Config) { c.LLM.Providers = nil }},
		{"all disabled", func(c *Config) { c.LLM.Providers[0].Enabled = false }},
		{"missing model", func(c *Config) { c.LLM.Providers[0].Model = "" }},
		{"zero priority", func(c *Config) { c.LLM.Providers[0].Priority = 0 }},
		{"duplicate priority", func(c *Config) {
			c.LLM.Providers = append(c.LLM.Providers, ProviderConfig{Name: "gemini", Enabled: true, Priority: 1, Model: "g"})
		}},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
