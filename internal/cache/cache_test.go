package cache

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratewise/biz-trust-meter/internal/monitoring"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("key", []byte("value"))
	data, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte("value"), data)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)

	c.Set("key", []byte("value"))
	time.Sleep(20 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestCacheClear(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	require.Equal(t, 2, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestCacheStats(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))

	stats := c.Stats()
	assert.Equal(t, 1, stats["total_items"])
	assert.Equal(t, 1, stats["active_items"])
}

func TestMiddlewareCachesScoreRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()

	handlerCalls := 0
	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.GET("/businesses/:name/score", func(ctx *gin.Context) {
		handlerCalls++
		ctx.JSON(http.StatusOK, gin.H{"name": ctx.Param("name")})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/businesses/luigi/score", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 1, handlerCalls, "second request should come from the cache")
}

func TestMiddlewareSkipsNonScoreRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCache(time.Minute)
	metrics := monitoring.NewMetrics()

	handlerCalls := 0
	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.GET("/health", func(ctx *gin.Context) {
		handlerCalls++
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.ServeHTTP(w, req)
	}

	assert.Equal(t, 2, handlerCalls)
	assert.Equal(t, 0, c.Size())
}
