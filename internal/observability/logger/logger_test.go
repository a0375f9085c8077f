package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/housing/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(nil, Config{Level: "loud"})
	require.Error(t, err)
}

func TestNewDefaultsToJSON(t *testing.T) {
	log, err := New(nil, Config{ServiceName: "housing-test", Format: "xml"})
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.Equal(t, "json", normalizeFormat("xml"))
	assert.Equal(t, "console", normalizeFormat(" Console "))
}

func TestWithContextAddsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := obscontext.WithRequestID(context.Background(), "req-42")
	WithContext(ctx, base).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

func TestGinMiddlewareEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, obscontext.RequestIDFromContext(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc", w.Header().Get("X-Request-Id"))
	assert.Equal(t, "abc", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "SELECT", operationFromSQL("select id from housing"))
	assert.Equal(t, "DELETE", operationFromSQL("  DELETE FROM housing WHERE id = ?"))
	assert.Equal(t, "UNKNOWN", operationFromSQL(""))
}

func TestRequestLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, requestLevel("/health", http.StatusOK))
	assert.Equal(t, zapcore.InfoLevel, requestLevel("/housing", http.StatusCreated))
	assert.Equal(t, zapcore.WarnLevel, requestLevel("/housing/:id", http.StatusNotFound))
	assert.Equal(t, zapcore.ErrorLevel, requestLevel("/housing", http.StatusInternalServerError))
}

func TestWithContextWithoutFieldsReturnsBase(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, WithContext(context.Background(), base))
}
