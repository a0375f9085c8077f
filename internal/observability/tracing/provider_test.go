package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProviderDisabledNeverSamples(t *testing.T) {
	provider, err := NewProvider(nil, Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	_, span := provider.Tracer("test").Start(context.Background(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsSampled())
}

func TestNewExporterRejectsUnknownProtocol(t *testing.T) {
	_, err := newExporter("carrier-pigeon", "")
	require.Error(t, err)
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.0, clampRatio(-1))
	assert.Equal(t, 1.0, clampRatio(3))
	assert.Equal(t, 0.25, clampRatio(0.25))
}

func TestGinMiddlewarePassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/housing", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/housing", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
