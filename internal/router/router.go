package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/handler"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/internal/middleware"
	"github.com/mkartalkolcuoglu/randevuSistemi-sub004/pkg/metrics"
)

// Handler registers its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimit rate.Limit
	RateBurst int
	CORS      middleware.CORSConfig
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	authH   Handler
	metrics *metrics.Metrics
	h       *handler.Handler
	config  Config

	protected []Handler
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH Handler,
	h *handler.Handler,
	m *metrics.Metrics,
	config Config,
	protected ...Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	return &Router{
		engine:    gin.New(),
		auth:      auth,
		authH:     authH,
		h:         h,
		metrics:   m,
		config:    config,
		protected: protected,
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) Setup() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger())
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.config.CORS))
	r.engine.Use(r.measure())

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  r.config.RateLimit,
		Burst: r.config.RateBurst,
	})
	r.engine.Use(limiter.RateLimit())

	r.engine.GET("/health", r.h.LivenessCheck)
	r.engine.GET("/ready", r.h.ReadinessCheck)
	r.engine.GET("/metrics", r.h.MetricsHandler)

	api := r.engine.Group("/api/v1")
	r.authH.RegisterRoutes(api)

	authed := api.Group("")
	authed.Use(r.auth.Authenticate())
	for _, h := range r.protected {
		h.RegisterRoutes(authed)
	}
}

func (r *Router) measure() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}
