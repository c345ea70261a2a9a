package httpserver

import (
	"context"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"notion-task-intake/internal/model"
	taskHTTP "notion-task-intake/internal/task/delivery/http"
)

const telegramWebhookPath = "/webhook/telegram"

func (srv HTTPServer) mapHandlers() error {
	ctx := context.Background()

	srv.gin.Use(
		srv.mw.RequestID(),
		srv.mw.Recovery(),
		srv.mw.RateLimit(),
	)

	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
	if srv.environment != string(model.EnvironmentProduction) {
		srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("doc.json"),
			ginSwagger.DefaultModelsExpandDepth(-1),
		))
	}

	// POST /task, POST /task/parse, GET /notion/database
	taskHTTP.RegisterRoutes(srv.gin.Group(""), taskHTTP.New(srv.l, srv.taskUC), srv.mw)

	if srv.telegramHandler != nil {
		// Authenticated by the webhook secret token, not the API key.
		srv.gin.POST(telegramWebhookPath, srv.telegramHandler.HandleWebhook)
		srv.l.Infof(ctx, "httpserver: telegram webhook at POST %s", telegramWebhookPath)
	}

	srv.l.Infof(ctx, "httpserver: routes registered (environment %s)", srv.environment)
	return nil
}
