package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/medicalife/patient-api/internal/handler"
	"github.com/medicalife/patient-api/internal/handler/prometheus"
	"github.com/medicalife/patient-api/internal/middleware"
)

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

type panicHandler struct{}

func (panicHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/patient", func(c *gin.Context) { panic("boom") })
	r.POST("/patient", func(c *gin.Context) { c.Status(http.StatusCreated) })
}

func newTestRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := NewRouter(panicHandler{}, handler.NewHandler(okPinger{}), prometheus.New("router_test"), cfg)
	r.Setup()
	return r.Engine()
}

func TestRouterWiring(t *testing.T) {
	engine := newTestRouter(RouterConfig{
		CORSConfig:   middleware.DefaultCORSConfig(),
		MaxBodyBytes: 16,
	})

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("panic keeps cors headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/patient", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("body limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"name":"a very long patient name"}`)
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/patient", body))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestRouterRateLimit(t *testing.T) {
	engine := newTestRouter(RouterConfig{
		CORSConfig:       middleware.DefaultCORSConfig(),
		RateLimitEnabled: true,
		RateLimit:        rate.Every(time.Hour),
		RateBurst:        1,
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
