package server

import (
	"errors"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/housing/internal/observability/logger"
	"github.com/smallbiznis/housing/internal/ratelimit"
	"go.uber.org/zap"
)

// WriteRateLimit throttles record writes per client address.
func (s *Server) WriteRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		res, err := s.limiter.Allow(c.Request.Context(), c.ClientIP())
		if res != nil && res.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		}
		if errors.Is(err, ratelimit.ErrTooManyRequests) {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logger.FromContext(c.Request.Context()).Info("write rate limited",
				zap.String("client_ip", c.ClientIP()),
				zap.String("route", c.FullPath()),
			)
			AbortWithError(c, err)
			return
		}

		c.Next()
	}
}
