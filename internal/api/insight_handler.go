package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/coach-dashboard/internal/domain"
	"alcyxob/coach-dashboard/internal/service"
)

// InsightHandler serves the advisory list.
type InsightHandler struct {
	registry service.Registry
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(registry service.Registry) *InsightHandler {
	return &InsightHandler{registry: registry}
}

// InsightsResponse is the notification panel payload.
type InsightsResponse struct {
	Unacknowledged int              `json:"unacknowledged"`
	Insights       []domain.Insight `json:"insights"`
}

// ListInsights godoc
// @Summary Active insights across all athletes
// @Tags Insights
// @Produce json
// @Success 200 {object} InsightsResponse
// @Router /insights [get]
func (h *InsightHandler) ListInsights(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, InsightsResponse{
		Unacknowledged: h.registry.UnacknowledgedCount(ctx),
		Insights:       h.registry.Insights(ctx),
	})
}

// AcknowledgeInsight godoc
// @Summary Dismiss an insight
// @Description Removes the insight from the active set. Unknown ids are ignored.
// @Tags Insights
// @Param insightId path string true "Insight ID (athleteId:kind)"
// @Success 204
// @Router /insights/{insightId}/acknowledge [post]
func (h *InsightHandler) AcknowledgeInsight(c *gin.Context) {
	key, err := domain.ParseInsightKey(c.Param("insightId"))
	if err == nil {
		h.registry.AcknowledgeInsight(c.Request.Context(), key)
	}
	// An id that cannot exist is treated like one that no longer does.
	c.Status(http.StatusNoContent)
}
