package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafabene/gearshare-backend/internal/infrastructure/logging"
	"github.com/rafabene/gearshare-backend/internal/infrastructure/ratelimit"
)

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func limitedRouter(limiter gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", limiter, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return router
}

func post(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	t.Run("bloqueia após o limite por IP", func(t *testing.T) {
		limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Limit: 2, Window: time.Minute})
		router := limitedRouter(RateLimit(limiter, "auth", logging.Discard()))

		assert.Equal(t, http.StatusNoContent, post(router, "10.0.0.1:1234").Code)
		assert.Equal(t, http.StatusNoContent, post(router, "10.0.0.1:1234").Code)

		w := post(router, "10.0.0.1:1234")
		require.Equal(t, http.StatusTooManyRequests, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "error.rate_limited", body["message"])
		assert.EqualValues(t, http.StatusTooManyRequests, body["status"])

		// outro cliente tem a própria janela
		assert.Equal(t, http.StatusNoContent, post(router, "10.0.0.2:1234").Code)
	})

	t.Run("limiter indisponível não bloqueia", func(t *testing.T) {
		router := limitedRouter(RateLimit(brokenLimiter{}, "auth", logging.Discard()))
		assert.Equal(t, http.StatusNoContent, post(router, "10.0.0.1:1234").Code)
	})
}
