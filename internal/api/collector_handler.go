package api

import (
	"net/http"
	"strconv"
	"time"

	"energia_assistant/internal/domain"
	"energia_assistant/internal/repository"
	"energia_assistant/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CollectorHandler receives records from the transmission path
type CollectorHandler struct {
	store repository.Store
	now   func() time.Time
}

// NewCollectorHandler creates a handler backed by store
func NewCollectorHandler(store repository.Store) *CollectorHandler {
	return &CollectorHandler{store: store, now: time.Now}
}

// Root handles GET /
func (h *CollectorHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "API funcionando"})
}

// Receive handles POST /enviar/
func (h *CollectorHandler) Receive(c *gin.Context) {
	var rec domain.CollectorRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Invalid record",
			"details": err.Error(),
		})
		return
	}

	received := domain.ReceivedRecord{
		ID:              uuid.NewString(),
		RequestID:       c.GetHeader(RequestIDHeader),
		SourceIP:        c.ClientIP(),
		ReceivedAt:      h.now().UTC(),
		CollectorRecord: rec,
	}
	if err := h.store.Add(c.Request.Context(), received); err != nil {
		logger.Error("Store failed: " + err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao armazenar dados"})
		return
	}

	logger.Infof("Recebido: %s, %v", rec.InverterSN, rec.EnergiaTotal)

	c.JSON(http.StatusOK, domain.CollectorAck{
		Status:       "ok",
		Mensagem:     "Dados recebidos com sucesso",
		InverterSN:   rec.InverterSN,
		EnergiaTotal: rec.EnergiaTotal,
	})
}

// List handles GET /recebidos
func (h *CollectorHandler) List(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.store.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	total, err := h.store.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []domain.ReceivedRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"total":   total,
		"store":   h.store.Type(),
		"records": records,
	})
}
