package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"ocr-consolidator/internal/consolidate"

	"github.com/gin-gonic/gin"
)

const processingErrorPrefix = "An error occurred while processing: "

// ConsolidationService defines the behavior consumed by the handler.
type ConsolidationService interface {
	Consolidate(ctx context.Context, texts consolidate.Candidates) (consolidate.Result, error)
}

// Pinger checks that the inference server is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConsolidationHandler manages the OCR consolidation HTTP interactions.
type ConsolidationHandler struct {
	service ConsolidationService
	pinger  Pinger
}

// NewConsolidationHandler builds the handler. pinger may be nil, in which
// case readiness always succeeds.
func NewConsolidationHandler(svc ConsolidationService, pinger Pinger) *ConsolidationHandler {
	return &ConsolidationHandler{service: svc, pinger: pinger}
}

// HandleProcessOCR merges the posted OCR candidates into one text.
func (h *ConsolidationHandler) HandleProcessOCR(c *gin.Context) {
	req, err := consolidate.DecodeRequest(c.Request.Body)
	if err != nil {
		var verr *consolidate.ValidationError
		if errors.As(err, &verr) {
			log.Printf("rejected request: %s", verr.Reason)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": consolidate.InvalidInputMessage,
		})
		return
	}

	res, err := h.service.Consolidate(c.Request.Context(), req.Texts)
	if err != nil {
		log.Printf("consolidation error: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": processingErrorPrefix + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, res)
}

// HandleReady reports whether the inference server answers.
func (h *ConsolidationHandler) HandleReady(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger.Ping(c.Request.Context()); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "inference server unavailable: " + err.Error(),
			})
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
