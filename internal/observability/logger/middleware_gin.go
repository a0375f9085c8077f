package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/housing/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// MiddlewareConfig controls request logging behavior.
type MiddlewareConfig struct {
	Debug bool
	// ErrorClassifier maps the last handler error to an (error_type, error_code) pair.
	ErrorClassifier func(err error) (string, string)
}

// GinMiddleware assigns a request id and logs one line per request.
// Request bodies are never logged.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := requestIDFor(c)
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
			zap.String("client_ip", c.ClientIP()),
		}

		if last := c.Errors.Last(); last != nil {
			if cfg.ErrorClassifier != nil {
				errType, errCode := cfg.ErrorClassifier(last.Err)
				fields = append(fields, zap.String("error_type", errType), zap.String("error_code", errCode))
			}
			if status >= http.StatusInternalServerError || cfg.Debug {
				fields = append(fields, zap.Error(last.Err))
			}
		}

		if ce := FromContext(c.Request.Context()).Check(requestLevel(route, status), "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func requestIDFor(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(requestIDHeader)); id != "" {
		return id
	}
	return uuid.NewString()
}

func requestLevel(route string, status int) zapcore.Level {
	switch {
	case route == "/health" || route == "/metrics":
		return zapcore.DebugLevel
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}
