package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "debug", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	path := filepath.Join(t.TempDir(), "app.log")
	l, err = New(Config{Level: "warn", Format: "console", Output: path})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = New(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("chatty"))
}

func TestConfigForEnvironment(t *testing.T) {
	assert.Equal(t, "json", ConfigForEnvironment("production").Format)
	assert.Equal(t, "console", ConfigForEnvironment("development").Format)
}

func TestContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithPrincipal(ctx, "user-1", "admin")

	L(ctx).Info("hello")

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, "admin", fields["role"])
	assert.Equal(t, "", GetTraceID(ctx))

	assert.NotNil(t, FromContext(context.Background()))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.DebugLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-42")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/orders/track", func(c *gin.Context) {
		assert.Equal(t, "req-42", GetRequestID(c.Request.Context()))
		c.Status(http.StatusNotFound)
	})
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/track?order_number=TO-2026-00001&phone=9876543210", nil))

	logs := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	assert.Equal(t, "order_number=TO-2026-00001&phone=REDACTED", logs[0].ContextMap()["query"])

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	logs = recorded.FilterMessage("HTTP Request").All()
	require.Len(t, logs, 2)
	assert.Equal(t, zapcore.DebugLevel, logs[1].Level)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, 100*time.Millisecond)
	fc := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), fc, nil)
	gl.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	gl.Trace(context.Background(), time.Now(), fc, errors.New("syntax error"))
	gl.Trace(context.Background(), time.Now(), fc, gormlogger.ErrRecordNotFound)

	assert.Equal(t, 1, recorded.FilterMessage("Slow SQL").Len())
	assert.Equal(t, 1, recorded.FilterMessage("SQL error").Len())
	assert.Equal(t, 2, recorded.FilterMessage("SQL").Len())

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), fc, errors.New("ignored"))
	assert.Equal(t, 1, recorded.FilterMessage("SQL error").Len())
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
}
