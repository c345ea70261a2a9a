package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notion-task-intake/config"
	_ "notion-task-intake/docs" // Swagger docs
	"notion-task-intake/internal/httpserver"
	"notion-task-intake/internal/middleware"
	tgDelivery "notion-task-intake/internal/task/delivery/telegram"
	notionRepo "notion-task-intake/internal/task/repository/notion"
	"notion-task-intake/internal/task/usecase"
	"notion-task-intake/pkg/datemath"
	"notion-task-intake/pkg/gcalendar"
	"notion-task-intake/pkg/llmprovider"
	"notion-task-intake/pkg/log"
	"notion-task-intake/pkg/notion"
	"notion-task-intake/pkg/telegram"
)

// @title       Notion Task Intake API
// @description Turns free-text task descriptions into structured tasks and stores them in a Notion database.
// @version     1
// @host        localhost:8080
// @schemes     http
// @securityDefinitions.apikey ApiKeyAuth
// @in   header
// @name x-api-key
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Notion Task Intake...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. LLM providers
	providers, err := llmprovider.InitializeProviders(ctx, logger, &cfg.LLM)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize LLM providers: %v", err)
	}
	llmManager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      cfg.LLM.RetryDelay,
		MaxTotalTimeout: cfg.LLM.MaxTotalTimeout,
	}, logger)
	logger.Infof(ctx, "LLM providers ready: %d", len(providers))

	// 4. Notion
	notionClient, err := notion.New(notion.Config{
		APIKey:  cfg.Notion.APIKey,
		APIURL:  cfg.Notion.APIURL,
		Version: cfg.Notion.Version,
	})
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize Notion client: %v", err)
	}
	schemaCache := notionRepo.NewSchemaCache(notionClient, cfg.Notion.DatabaseID)
	taskRepo := notionRepo.New(notionClient, schemaCache, logger)

	// 5. Dates
	dateMathParser, err := datemath.NewParser(cfg.Date.Timezone)
	if err != nil {
		logger.Fatalf(ctx, "Invalid date.timezone %q: %v", cfg.Date.Timezone, err)
	}

	// 6. Google Calendar (optional)
	var calendar usecase.Calendar
	if cfg.GoogleCalendar.CredentialsPath != "" {
		calendarClient, calErr := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath)
		if calErr != nil {
			logger.Warnf(ctx, "Google Calendar not available (optional): %v", calErr)
			logger.Warn(ctx, "Run `go run scripts/gcal-auth/main.go` to generate token.json")
		} else {
			calendar = calendarClient
			logger.Info(ctx, "Google Calendar initialized")
		}
	}

	// 7. Task UseCase
	taskUC := usecase.New(logger, llmManager, taskRepo, dateMathParser, calendar, cfg.GoogleCalendar.CalendarID)

	// 8. Telegram intake (optional)
	var telegramHandler tgDelivery.Handler
	if cfg.Telegram.BotToken != "" {
		telegramBot := telegram.NewBot(cfg.Telegram.BotToken)
		telegramHandler = tgDelivery.New(logger, taskUC, telegramBot, tgDelivery.Config{
			WebhookSecret: cfg.Telegram.WebhookSecret,
		})
		go registerTelegramWebhook(ctx, logger, telegramBot, cfg.Telegram)
	} else {
		logger.Info(ctx, "Telegram intake skipped: telegram.bot_token is empty")
	}

	// 9. HTTP Server
	mw := middleware.New(logger, middleware.Config{
		AuthHeader:      cfg.Auth.Header,
		APIKey:          cfg.Auth.APIKey,
		RateLimitPerMin: cfg.RateLimit.PerMin,
	})

	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		Middleware:      mw,
		ReadinessCheck:  schemaCache.Ensure,
		TaskUC:          taskUC,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		os.Exit(1)
	}

	// 10. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// registerTelegramWebhook points the bot at this service: the configured URL,
// else an ngrok tunnel when one is running.
func registerTelegramWebhook(ctx context.Context, logger log.Logger, bot *telegram.Bot, cfg config.TelegramConfig) {
	webhookURL := cfg.WebhookURL
	if webhookURL == "" {
		ngrokURL, err := detectNgrokURL(ctx, ngrokAPIBase)
		if err != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL, webhook not registered: %v", err)
			return
		}
		webhookURL = ngrokURL + "/webhook/telegram"
		logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
	}

	if err := bot.SetWebhook(ctx, webhookURL, cfg.WebhookSecret); err != nil {
		logger.Warnf(ctx, "Failed to set Telegram webhook: %v", err)
		return
	}
	logger.Infof(ctx, "Telegram webhook registered at %s", webhookURL)
}
