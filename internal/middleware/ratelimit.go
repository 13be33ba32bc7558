package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/JonnyWalker81/formcraft/backend/internal/apierror"
	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// Rate limit response headers
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimit limits requests per client IP. Reset is reported in unix
// milliseconds. When the store fails the request is let through.
func RateLimit(limiter *ratelimit.Limiter, now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		log := logger.FromContext(c.Request.Context())
		at := now()

		res, err := limiter.Allow(c.Request.Context(), ip, at)
		if err != nil {
			log.Error("rate limiter unavailable, allowing request",
				logger.String("limiter", limiter.Name()),
				logger.Err(err),
			)
			c.Next()
			return
		}

		c.Header(HeaderRateLimitLimit, strconv.Itoa(res.Limit))
		c.Header(HeaderRateLimitRemaining, strconv.Itoa(res.Remaining))
		c.Header(HeaderRateLimitReset, strconv.FormatInt(res.Reset.UnixMilli(), 10))

		if !res.Allowed {
			retryAfter := int(math.Ceil(res.RetryAfter(at).Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}

			log.Warn("rate limit exceeded",
				logger.String("limiter", limiter.Name()),
				logger.String("client_ip", ip),
				logger.Int("limit", res.Limit),
				logger.Duration("window", limiter.Window()),
			)

			apierror.WriteProblem(c, apierror.NewRateLimitError(apierror.GetRequestID(c), retryAfter))
			return
		}

		c.Next()
	}
}
