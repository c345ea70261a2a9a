package telegram_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notion-task-intake/pkg/telegram"
)

// fakeAPI answers every Bot API method with the configured status and body
// and records the last call.
type fakeAPI struct {
	status int
	body   string

	method  string
	payload map[string]interface{}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.method = r.URL.Path
	f.payload = nil
	_ = json.NewDecoder(r.Body).Decode(&f.payload)
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

func newBot(t *testing.T, status int, body string) (*telegram.Bot, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{status: status, body: body}
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	bot := telegram.NewBot("test-token")
	bot.SetAPIURL(ts.URL + "/bottest-token/")
	return bot, api
}

func TestSetWebhook(t *testing.T) {
	bot, api := newBot(t, http.StatusOK, `{"ok": true, "description": "Webhook was set"}`)

	require.NoError(t, bot.SetWebhook(context.Background(), "https://example.com/webhook/telegram", "s3cret"))

	assert.Equal(t, "/bottest-token/setWebhook", api.method)
	assert.Equal(t, "https://example.com/webhook/telegram", api.payload["url"])
	assert.Equal(t, "s3cret", api.payload["secret_token"])
	assert.Equal(t, []interface{}{"message"}, api.payload["allowed_updates"])
}

func TestSendMessage(t *testing.T) {
	bot, api := newBot(t, http.StatusOK, `{"ok": true}`)

	require.NoError(t, bot.SendMessage(context.Background(), 42, "hello"))
	assert.Equal(t, "/bottest-token/sendMessage", api.method)
	assert.Equal(t, float64(42), api.payload["chat_id"])
	assert.Equal(t, "hello", api.payload["text"])
	assert.NotContains(t, api.payload, "parse_mode")
	assert.Equal(t, true, api.payload["disable_web_page_preview"])

	require.NoError(t, bot.SendMessageWithMode(context.Background(), 42, "*bold*", telegram.ParseModeMarkdown))
	assert.Equal(t, "Markdown", api.payload["parse_mode"])
}

func TestCallErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantDesc string
	}{
		{"bad request envelope", http.StatusBadRequest, `{"ok": false, "description": "Bad Request: chat not found"}`, http.StatusBadRequest, "Bad Request: chat not found"},
		{"ok false on 200", http.StatusOK, `{"ok": false, "description": "Forbidden"}`, http.StatusOK, "Forbidden"},
		{"non json 502", http.StatusBadGateway, `Bad Gateway`, http.StatusBadGateway, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot, _ := newBot(t, tt.status, tt.body)

			err := bot.SendMessage(context.Background(), 1, "x")
			var apiErr *telegram.APIError
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.wantCode, apiErr.StatusCode)
			assert.Equal(t, tt.wantDesc, apiErr.Description)
		})
	}

	t.Run("undecodable 200", func(t *testing.T) {
		bot, _ := newBot(t, http.StatusOK, `not json`)
		err := bot.SetWebhook(context.Background(), "https://x", "")
		require.Error(t, err)
		var apiErr *telegram.APIError
		assert.False(t, errors.As(err, &apiErr))
	})
}

func TestSendMessage_CancelledContext(t *testing.T) {
	bot, _ := newBot(t, http.StatusOK, `{"ok": true}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, bot.SendMessage(ctx, 1, "x"), context.Canceled)
}
