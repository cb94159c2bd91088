package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthHandler reports whether the record store is reachable
type HealthHandler struct {
	check   func(ctx context.Context) error
	backend string
	started time.Time
	logger  *logrus.Logger
}

// NewHealthHandler creates a health handler; check may be nil
func NewHealthHandler(backend string, check func(ctx context.Context) error, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{check: check, backend: backend, started: time.Now(), logger: logger}
}

// Health ヘルスチェック用のエンドポイント
func (h *HealthHandler) Health(c *gin.Context) {
	status, code := "OK", http.StatusOK
	if h.check != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.check(ctx); err != nil {
			h.logger.WithError(err).Error("ヘルスチェックに失敗")
			status, code = "UNAVAILABLE", http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{
		"status":    status,
		"backend":   h.backend,
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
	})
}
