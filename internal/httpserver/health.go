package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	pkgErrors "notion-task-intake/pkg/errors"
	"notion-task-intake/pkg/response"
)

const (
	HealthVersion = "1.0.0"
	ServiceName   = "notion-task-intake"

	readinessTimeout = 5 * time.Second
)

type healthResp struct {
	Status string `json:"status"`
}

type probeResp struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Service string `json:"service"`
}

func probe(status string) probeResp {
	return probeResp{Status: status, Version: HealthVersion, Service: ServiceName}
}

// healthCheck
// @Summary Health Check
// @Description Always answers while the process serves HTTP
// @Tags Health
// @Produce json
// @Success 200 {object} healthResp
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, healthResp{Status: "ok"})
}

// readyCheck answers 503 until the readiness check (the database schema load)
// succeeds.
// @Summary Readiness Check
// @Description Ready once the Notion database schema can be loaded
// @Tags Health
// @Produce json
// @Success 200 {object} probeResp
// @Failure 503 {object} response.ErrorResp
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	if srv.readiness != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := srv.readiness(ctx); err != nil {
			srv.l.Warnf(ctx, "httpserver.readyCheck: %v", err)
			response.Error(c, pkgErrors.NewHTTPError(http.StatusServiceUnavailable, err.Error()))
			return
		}
	}
	response.OK(c, probe("ready"))
}

// liveCheck
// @Summary Liveness Check
// @Tags Health
// @Produce json
// @Success 200 {object} probeResp
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, probe("alive"))
}
