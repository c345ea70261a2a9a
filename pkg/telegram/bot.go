package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultAPIURL  = "https://api.telegram.org"
	DefaultTimeout = 10 * time.Second

	// SecretTokenHeader carries the webhook secret on every update Telegram delivers.
	SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

	ParseModeMarkdown = "Markdown"
)

// Bot is the Telegram Bot API client.
type Bot struct {
	token      string
	apiURL     string
	httpClient *http.Client
}

// NewBot creates a new Telegram Bot client with the given token.
func NewBot(token string) *Bot {
	return &Bot{
		token:      token,
		apiURL:     fmt.Sprintf("%s/bot%s", DefaultAPIURL, token),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetAPIURL overrides the bot endpoint (including the bot token segment).
func (b *Bot) SetAPIURL(url string) {
	b.apiURL = strings.TrimRight(url, "/")
}

// SetWebhook registers the webhook URL with Telegram. A non-empty secret is
// echoed back by Telegram in SecretTokenHeader on every update.
func (b *Bot) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	req := SetWebhookRequest{
		URL:            webhookURL,
		SecretToken:    secret,
		AllowedUpdates: []string{"message"},
	}
	if err := b.call(ctx, "setWebhook", req); err != nil {
		return fmt.Errorf("telegram: set webhook: %w", err)
	}
	return nil
}

// SendMessage sends a plain text message to a Telegram chat.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string) error {
	return b.SendMessageWithMode(ctx, chatID, text, "")
}

// SendMessageWithMode sends a message with optional parse mode (e.g. "Markdown").
func (b *Bot) SendMessageWithMode(ctx context.Context, chatID int64, text string, parseMode string) error {
	req := SendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             parseMode,
		DisableWebPagePreview: true,
	}
	if err := b.call(ctx, "sendMessage", req); err != nil {
		return fmt.Errorf("telegram: send message: %w", err)
	}
	return nil
}

// call posts payload to a Bot API method and checks the {ok, description} envelope.
func (b *Bot) call(ctx context.Context, method string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.apiURL+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call API: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{StatusCode: resp.StatusCode, Description: string(raw)}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !apiResp.OK {
		return &APIError{StatusCode: resp.StatusCode, Description: apiResp.Description}
	}
	return nil
}
