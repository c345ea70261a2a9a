package telegram

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"notion-task-intake/internal/model"
	"notion-task-intake/internal/task"
	pkgErrors "notion-task-intake/pkg/errors"
	pkgLog "notion-task-intake/pkg/log"
	pkgResponse "notion-task-intake/pkg/response"
	pkgTelegram "notion-task-intake/pkg/telegram"
)

const (
	sourceTelegram = "telegram"

	welcomeMessage = "Welcome! Send me a description of your work and I will:\n" +
		"• break it into tasks and subtasks\n" +
		"• store them in the Notion task database\n\n" +
		"Example: \"Finish the quarterly report by tomorrow, high priority. Subtasks: gather numbers, draft summary\""

	helpMessage = "How to use:\n\n" +
		"Write your tasks in plain language. Mention due dates (\"today\", \"next week\", \"2024-05-01\"), " +
		"priority or effort if you know them. Each task becomes a page in Notion and I reply with the links."
)

type handler struct {
	l       pkgLog.Logger
	uc      task.UseCase
	bot     *pkgTelegram.Bot
	secret  string
	timeout time.Duration
}

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and processes the message in a background goroutine,
// since extraction plus Notion writes can outlast Telegram's webhook timeout.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if h.secret != "" {
		got := c.GetHeader(pkgTelegram.SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			h.l.Warnf(ctx, "telegram handler: rejected update with bad secret token from %s", c.ClientIP())
			pkgResponse.Unauthorized(c)
			return
		}
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram handler: failed to parse update: %v", err)
		pkgResponse.Error(c, pkgErrors.NewHTTPError(http.StatusBadRequest, err.Error()))
		return
	}

	// Ignore non-message updates (edited messages, channel posts, etc.)
	if update.Message == nil || update.Message.Chat == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	// Snapshot the message before spawning goroutine to avoid data races on gin context
	msg := update.Message

	go func() {
		// Keep request-scoped values (request id) but not the cancellation.
		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
		defer cancel()

		if err := h.processMessage(bgCtx, msg); err != nil {
			h.l.Errorf(bgCtx, "telegram handler: background processMessage failed: %v", err)
			_ = h.bot.SendMessage(bgCtx, msg.Chat.ID, errorMessage(err))
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processMessage handles a single Telegram message.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}

	switch text {
	case "/start":
		return h.bot.SendMessage(ctx, msg.Chat.ID, welcomeMessage)
	case "/help":
		return h.bot.SendMessage(ctx, msg.Chat.ID, helpMessage)
	}

	sc := model.Scope{Source: sourceTelegram}
	if msg.From != nil {
		sc.UserID = fmt.Sprintf("telegram_%d", msg.From.ID)
		sc.Username = msg.From.Username
	}

	if err := h.bot.SendMessage(ctx, msg.Chat.ID, "Processing..."); err != nil {
		h.l.Warnf(ctx, "telegram handler: failed to send ack message: %v", err)
	}

	output, err := h.uc.Create(ctx, sc, task.CreateInput{Text: text})
	if err != nil {
		return err
	}

	return h.bot.SendMessage(ctx, msg.Chat.ID, formatCreated(output.Tasks))
}

// formatCreated renders the created trees as an indented plain-text list.
func formatCreated(tasks []model.CreatedTask) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Created %d task(s):\n", countNodes(tasks))
	writeCreated(&sb, tasks, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func writeCreated(sb *strings.Builder, tasks []model.CreatedTask, depth int) {
	indent := strings.Repeat("  ", depth)
	for i, t := range tasks {
		fmt.Fprintf(sb, "\n%s%d. %s", indent, i+1, t.Task.Title)
		if t.Task.DueDate != "" {
			fmt.Fprintf(sb, " (due %s)", t.Task.DueDate)
		}
		if t.URL != "" {
			fmt.Fprintf(sb, "\n%s   %s", indent, t.URL)
		}
		if t.CalendarLink != "" {
			fmt.Fprintf(sb, "\n%s   Calendar: %s", indent, t.CalendarLink)
		}
		writeCreated(sb, t.Subtasks, depth+1)
	}
}

func countNodes(tasks []model.CreatedTask) int {
	n := len(tasks)
	for _, t := range tasks {
		n += countNodes(t.Subtasks)
	}
	return n
}
