package router

import (
	"net/http"

	"ocr-consolidator/internal/server/middleware"

	"github.com/gin-gonic/gin"
)

// ConsolidationHandler defines the interface for the consolidation handler.
type ConsolidationHandler interface {
	HandleProcessOCR(c *gin.Context)
	HandleReady(c *gin.Context)
}

// Metrics is the optional metrics sink and exposition handler.
type Metrics interface {
	middleware.StatusRecorder
	Handler() http.Handler
}

// New wires up handlers to the Gin engine. metrics may be nil.
func New(h ConsolidationHandler, metrics Metrics) *gin.Engine {
	r := gin.New()

	var rec middleware.StatusRecorder
	if metrics != nil {
		rec = metrics
	}
	r.Use(gin.Recovery(), middleware.WithRequestID(), middleware.WithLogging(rec))

	// Health check endpoint
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/readyz", h.HandleReady)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	r.POST("/process_ocr", h.HandleProcessOCR)

	return r
}
