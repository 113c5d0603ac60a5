package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/insurance-crm/internal/handler/prometheus"
	"github.com/jwalitptl/insurance-crm/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// Handlers are the route owners mounted under /api/v1.
type Handlers struct {
	Health    Handler
	Insurance Handler
	Inbound   Handler
	Calls     Handler
	Analytics Handler
}

type RouterConfig struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORSConfig       middleware.CORSConfig
	SizeLimit        middleware.SizeLimitConfig
	Timeout          time.Duration
}

type Router struct {
	engine   *gin.Engine
	handlers Handlers
	metrics  *prometheus.Handler
}

func NewRouter(handlers Handlers, metrics *prometheus.Handler, config RouterConfig) *Router {
	engine := gin.New()

	r := &Router{
		engine:   engine,
		handlers: handlers,
		metrics:  metrics,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		metrics.Middleware(),
		middleware.Timeout(config.Timeout),
		middleware.SecurityHeaders(),
		middleware.CORS(config.CORSConfig),
		middleware.SizeLimit(config.SizeLimit),
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
	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	for _, h := range []Handler{
		r.handlers.Insurance,
		r.handlers.Inbound,
		r.handlers.Calls,
		r.handlers.Analytics,
	} {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(rg)
	}
	rg.GET("/health/metrics", r.metrics.Handler())
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
