package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports liveness and whether the database answers.
func (h *Handler) HealthCheck(ctx *gin.Context) {
	status, code := "ok", http.StatusOK

	if sqlDB, err := h.store.DB().DB(); err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	ctx.JSON(code, gin.H{
		"status":    status,
		"message":   "Kanban is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
