package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/JonnyWalker81/formcraft/backend/internal/apierror"
	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/gin-gonic/gin"
)

// timeLayout is the wire format for timestamps built by hand
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Pinger reports whether a dependency is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	env string
	db  Pinger
}

// NewHealthHandler creates a health handler. db may be nil.
func NewHealthHandler(env string, db Pinger) *HealthHandler {
	return &HealthHandler{env: env, db: db}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logger.Ctx(c.Request.Context()).Error("health check: database unreachable", logger.Err(err))
			apierror.WriteProblem(c, apierror.NewServiceUnavailableError(apierror.GetRequestID(c), 5))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"env":    h.env,
	})
}
