package middleware

import (
	"bytes"
	"net/http"

	"github.com/JonnyWalker81/formcraft/backend/internal/apierror"
	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/repository"
	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// maxIdempotencyKeyLength bounds keys stored per user
	maxIdempotencyKeyLength = 255
)

// idempotencyBodyWriter captures the response body for replay
type idempotencyBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *idempotencyBodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when an authenticated POST is
// retried with the same Idempotency-Key, so a double-submitted "create form"
// produces one form. It must run after Auth. Requests without the header
// pass through untouched.
func Idempotency(repo repository.IdempotencyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.FromContext(c.Request.Context())

		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			apierror.WriteProblem(c, apierror.NewBadRequestError(apierror.GetRequestID(c),
				"Idempotency-Key must be at most 255 characters", "Invalid request"))
			return
		}

		userID := UserID(c)
		if userID == "" {
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c), ""))
			return
		}

		route := c.Request.Method + " " + c.Request.URL.Path

		existing, err := repo.Get(c.Request.Context(), key, route, userID)
		if err != nil {
			// Proceed without replay rather than block a valid request
			log.Error("failed to check idempotency key",
				logger.Err(err),
				logger.String("key", key),
			)
			c.Next()
			return
		}

		if existing != nil {
			log.Info("replaying idempotent response",
				logger.String("key", key),
				logger.String("route", route),
				logger.Int("status_code", existing.StatusCode),
			)

			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.StatusCode, "application/json; charset=utf-8", existing.ResponseBody)
			c.Abort()
			return
		}

		blw := &idempotencyBodyWriter{
			body:           bytes.NewBuffer(nil),
			ResponseWriter: c.Writer,
		}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		if err := repo.Store(c.Request.Context(), key, route, userID, blw.body.Bytes(), status); err != nil {
			log.Warn("failed to store idempotency key",
				logger.Err(err),
				logger.String("key", key),
			)
		}
	}
}
