package telegram

import (
	"time"

	"github.com/gin-gonic/gin"

	"notion-task-intake/internal/task"
	pkgLog "notion-task-intake/pkg/log"
	pkgTelegram "notion-task-intake/pkg/telegram"
)

// processTimeout bounds one background message: extraction, Notion writes and calendar mirroring.
const processTimeout = 2 * time.Minute

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// Config holds the optional webhook secret checked against SecretTokenHeader.
type Config struct {
	WebhookSecret string
}

// New creates a new Telegram delivery handler.
func New(l pkgLog.Logger, uc task.UseCase, bot *pkgTelegram.Bot, cfg Config) Handler {
	return &handler{
		l:       l,
		uc:      uc,
		bot:     bot,
		secret:  cfg.WebhookSecret,
		timeout: processTimeout,
	}
}
