package llmprovider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notion-task-intake/config"
	"notion-task-intake/pkg/llmprovider"
	"notion-task-intake/pkg/log"
)

func TestInitializeProviders(t *testing.T) {
	tests := []struct {
		name      string
		providers []config.ProviderConfig
		wantNames []string
		wantErr   bool
	}{
		{
			name: "sorted by priority",
			providers: []config.ProviderConfig{
				{Name: "gemini", Enabled: true, Priority: 10, APIKey: "g", Model: "gemini-2.5-flash"},
				{Name: "qwen", Enabled: true, Priority: 1, APIKey: "q", Model: "qwen-plus", Timeout: 30 * time.Second},
				{Name: "deepseek", Enabled: true, Priority: 5, APIKey: "d", Model: "deepseek-chat"},
			},
			wantNames: []string{"qwen", "deepseek", "gemini"},
		},
		{
			name: "alibaba is qwen",
			providers: []config.ProviderConfig{
				{Name: "alibaba", Enabled: true, Priority: 1, APIKey: "q", Model: "qwen-max"},
			},
			wantNames: []string{"qwen"},
		},
		{
			name: "broken provider skipped",
			providers: []config.ProviderConfig{
				{Name: "qwen", Enabled: true, Priority: 1, Model: "qwen-plus"},
				{Name: "gemini", Enabled: true, Priority: 2, APIKey: "g", Model: "gemini-2.5-flash"},
			},
			wantNames: []string{"gemini"},
		},
		{
			name:    "no providers",
			wantErr: true,
		},
		{
			name: "all disabled",
			providers: []config.ProviderConfig{
				{Name: "qwen", Priority: 1, APIKey: "q", Model: "qwen-plus"},
			},
			wantErr: true,
		},
		{
			name: "unknown provider only",
			providers: []config.ProviderConfig{
				{Name: "openai", Enabled: true, Priority: 1, APIKey: "k", Model: "gpt"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := llmprovider.InitializeProviders(context.Background(), log.NewNop(), &config.LLMConfig{Providers: tt.providers})
			if tt.wantErr {
				assert.ErrorIs(t, err, llmprovider.ErrNoProvidersConfigured)
				return
			}
			require.NoError(t, err)

			names := make([]string, 0, len(providers))
			for _, p := range providers {
				names = append(names, p.Name())
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestGenerateJSON_ThroughQwen(t *testing.T) {
	var body struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		ResponseFormat *struct {
			Type string `json:"type"`
		} `json:"response_format"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"tasks\":[{\"title\":\"Write report\"}]}"}}],"usage":{"prompt_tokens":3,"completion_tokens":4,"total_tokens":7}}`))
	}))
	defer srv.Close()

	providers, err := llmprovider.InitializeProviders(context.Background(), log.NewNop(), &config.LLMConfig{
		Providers: []config.ProviderConfig{
			{Name: "qwen", Enabled: true, Priority: 1, APIKey: "k", Model: "qwen-plus", BaseURL: srv.URL, Timeout: 5 * time.Second},
		},
	})
	require.NoError(t, err)

	manager := llmprovider.NewManager(providers, &llmprovider.Config{RetryAttempts: 1}, log.NewNop())

	var out struct {
		Tasks []struct {
			Title string `json:"title"`
		} `json:"tasks"`
	}
	require.NoError(t, manager.GenerateJSON(context.Background(), "Write report", map[string]interface{}{"type": "object"}, &out))

	require.NotNil(t, body.ResponseFormat)
	assert.Equal(t, "json_object", body.ResponseFormat.Type)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, "Write report", body.Messages[1].Content)

	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "Write report", out.Tasks[0].Title)
}

func TestGenerateContent_GeminiFallsBackToDeepSeek(t *testing.T) {
	var geminiCalls int
	geminiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		geminiCalls++
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`))
	}))
	defer geminiSrv.Close()

	deepseekSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model":"deepseek-chat","choices":[{"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`))
	}))
	defer deepseekSrv.Close()

	providers, err := llmprovider.InitializeProviders(context.Background(), log.NewNop(), &config.LLMConfig{
		Providers: []config.ProviderConfig{
			{Name: "gemini", Enabled: true, Priority: 1, APIKey: "g", Model: "gemini-2.5-flash", BaseURL: geminiSrv.URL},
			{Name: "deepseek", Enabled: true, Priority: 2, APIKey: "d", Model: "deepseek-chat", BaseURL: deepseekSrv.URL},
		},
	})
	require.NoError(t, err)

	manager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: true,
		RetryAttempts:   3,
		RetryDelay:      time.Millisecond,
	}, log.NewNop())

	resp, err := manager.GenerateContent(context.Background(), &llmprovider.Request{
		Messages: []llmprovider.Message{{Role: llmprovider.RoleUser, Text: "hello"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, geminiCalls, "403 must not be retried")
	assert.Equal(t, "deepseek", resp.ProviderName)
	assert.Equal(t, "hi", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
}
