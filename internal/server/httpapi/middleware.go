package httpapi

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/server/auth"
	"github.com/gin-gonic/gin"
)

func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := s.metrics.Start(c.Request.Method)
		c.Next()
		done(routeOf(c), c.Writer.Status())
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		s.logger.Info(c.Request.Context(), "http_request",
			"method", c.Request.Method,
			"path", routeOf(c),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		if origin != "" {
			for _, allowedOrigin := range s.corsOrigins {
				if origin == allowedOrigin || allowedOrigin == "*" {
					allowed = true
					break
				}
			}
		}

		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Header("Access-Control-Max-Age", "3600")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// rateLimitMiddleware fails open: a limiter error is logged and the request proceeds.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}

		d, err := s.limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			s.logger.Warn(c.Request.Context(), "rate_limit_error", "error", err)
			c.Next()
			return
		}

		if !d.Allowed {
			s.metrics.RateLimited()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			abortStatus(c, http.StatusTooManyRequests, "too many requests")
			return
		}

		c.Next()
	}
}

// authMiddleware resolves the bearer credential once and stores the identity
// in the request context.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := common.ExtractBearerToken(c.GetHeader("Authorization"))
		if bearer == "" {
			abortStatus(c, http.StatusUnauthorized, "no token provided")
			return
		}

		id, err := s.resolver.Resolve(c.Request.Context(), bearer)
		if err != nil {
			s.logger.Debug(c.Request.Context(), "credential rejected", "token", common.MaskToken(bearer), "error", err)
			s.writeError(c, err)
			return
		}

		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}
