package middleware

import (
	"strings"

	"github.com/JonnyWalker81/formcraft/backend/internal/apierror"
	"github.com/JonnyWalker81/formcraft/backend/internal/auth"
	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/gin-gonic/gin"
)

// Gin context keys set by Auth
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
)

// Auth middleware to verify bearer JWTs issued at login
func Auth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Debug("authentication failed: missing authorization header")
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c), "Missing authorization header"))
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			log.Debug("authentication failed: invalid authorization format")
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c), "Authorization header must be a bearer token"))
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			log.Warn("authentication failed: token verification error",
				logger.Err(err),
			)
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c), "Invalid or expired token"))
			return
		}

		c.Set(ContextUserID, claims.UID)
		c.Set(ContextUserEmail, claims.Email)

		ctx := logger.WithUserID(c.Request.Context(), claims.UID)
		c.Request = c.Request.WithContext(ctx)

		log.Debug("authentication successful",
			logger.String("user_id", claims.UID),
		)

		c.Next()
	}
}

// UserID returns the authenticated user's id, or "" outside Auth.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
