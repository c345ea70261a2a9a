package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"notion-task-intake/internal/middleware"
	"notion-task-intake/internal/task"
	tgDelivery "notion-task-intake/internal/task/delivery/telegram"
	"notion-task-intake/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	mw          middleware.Middleware
	readiness   func(ctx context.Context) error

	// Task domain
	taskUC          task.UseCase
	telegramHandler tgDelivery.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string
	Middleware  middleware.Middleware

	// ReadinessCheck backs GET /ready. Nil means always ready.
	ReadinessCheck func(ctx context.Context) error

	// Task domain
	TaskUC          task.UseCase
	TelegramHandler tgDelivery.Handler // optional
}

// New creates a new HTTPServer instance and registers every route.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		mw:              cfg.Middleware,
		readiness:       cfg.ReadinessCheck,
		taskUC:          cfg.TaskUC,
		telegramHandler: cfg.TelegramHandler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.taskUC == nil {
		return errors.New("task usecase is required")
	}
	return nil
}
