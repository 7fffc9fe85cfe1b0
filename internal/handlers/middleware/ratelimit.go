package middleware

import (
	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
	"github.com/rafabene/gearshare-backend/internal/domain/ports"
)

// RateLimit limita requisições por IP do cliente. Erros do limiter não bloqueiam.
func RateLimit(limiter ports.RateLimiter, scope string, logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request", "scope", scope, "error", err)
			c.Next()
			return
		}
		if !allowed {
			abortWithError(c, logger, domainerrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
