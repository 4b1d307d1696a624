package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hyeonwoo-dev/community-board-api/internal/service"
)

// MetricsHandler exposes the Prometheus scrape endpoint.
type MetricsHandler struct {
	service *service.MetricsService
}

// NewMetricsHandler creates a new handler.
func NewMetricsHandler(svc *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{service: svc}
}

// Metrics godoc
// @Summary Prometheus metrics
// @Tags Observability
// @Produce plain
// @Success 200 {string} string "metrics"
// @Router /metrics [get]
func (h *MetricsHandler) Metrics(c *gin.Context) {
	h.service.Handler().ServeHTTP(c.Writer, c.Request)
}
