package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/medicalife/patient-api/internal/handler"
	"github.com/medicalife/patient-api/internal/handler/prometheus"
	"github.com/medicalife/patient-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(gin.IRouter)
}

type Router struct {
	engine         *gin.Engine
	patientHandler Handler
	h              *handler.Handler
	metrics        *prometheus.Handler
}

type RouterConfig struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORSConfig       middleware.CORSConfig
	RequestTimeout   time.Duration
	MaxBodyBytes     int64
}

func NewRouter(
	patientHandler Handler,
	h *handler.Handler,
	metrics *prometheus.Handler,
	config RouterConfig,
) *Router {
	engine := gin.New() // Use New() instead of Default() for more control

	r := &Router{
		engine:         engine,
		patientHandler: patientHandler,
		h:              h,
		metrics:        metrics,
	}

	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = middleware.DefaultTimeoutConfig().Duration
	}

	// CORS goes first so every response, panics included, carries the headers
	engine.Use(
		middleware.CORS(config.CORSConfig),
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		metrics.Middleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.Timeout(middleware.TimeoutConfig{Duration: timeout}),
		middleware.SizeLimit(config.MaxBodyBytes),
	)

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.h.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", r.metrics.Handler())
	r.patientHandler.RegisterRoutes(r.engine)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
