package api

import (
	"errors"
	"io"
	"net/http"

	"energia_assistant/internal/collector"
	"energia_assistant/internal/service"
	"energia_assistant/pkg/logger"

	"github.com/gin-gonic/gin"
)

const maxPayloadBytes = 16 << 20

// Handler serves the analysis and transmission API
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new handler
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// GetToday handles GET /api/today
func (h *Handler) GetToday(c *gin.Context) {
	report := h.svc.Today(c.Request.Context())
	c.JSON(http.StatusOK, report)
}

// GetTodaySeries handles GET /api/today/series
func (h *Handler) GetTodaySeries(c *gin.Context) {
	report := h.svc.Today(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"count":   len(report.Series.Rows),
		"rows":    report.Series.Rows,
		"columns": report.Series.Columns,
		"meta":    report.Series.Meta,
		"warning": report.Warning,
	})
}

// Analyze handles POST /api/analyze with a raw telemetry payload as body
func (h *Handler) Analyze(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	report, err := h.svc.Analyze(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid telemetry payload",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Send handles POST /api/send
func (h *Handler) Send(c *gin.Context) {
	result, err := h.svc.Send(c.Request.Context())
	if err != nil {
		var terr *collector.TransmissionError
		switch {
		case errors.Is(err, service.ErrNoData):
			c.JSON(http.StatusConflict, gin.H{"error": "Nenhum dado disponível"})
		case errors.As(err, &terr):
			c.JSON(http.StatusBadGateway, gin.H{
				"error":       "Falha no envio",
				"status_code": terr.StatusCode,
				"details":     terr.Error(),
				"record":      result.Record,
			})
		default:
			logger.Error("Send failed: " + err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Dados enviados com sucesso",
		"record":  result.Record,
		"ack":     result.Ack,
	})
}

// GetStats handles GET /api/stats
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.GetStats())
}

// Health handles GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
