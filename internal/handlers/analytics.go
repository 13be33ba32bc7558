package handlers

import (
	"net/http"

	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetFormAnalytics handles GET /api/v1/analytics/:formId
func (h *AnalyticsHandler) GetFormAnalytics(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	formID, ok := pathID(c, "formId")
	if !ok {
		return
	}

	ctx := logger.WithFormID(c.Request.Context(), formID)
	result, err := h.analyticsService.GetFormAnalytics(ctx, userID, formID)
	if err != nil {
		writeServiceError(c, err, "Form")
		return
	}

	c.JSON(http.StatusOK, result)
}
