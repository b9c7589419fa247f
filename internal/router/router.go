package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hemovault/bloodbank-api/internal/handler"
	authhandler "github.com/hemovault/bloodbank-api/internal/handler/auth"
	dashboardhandler "github.com/hemovault/bloodbank-api/internal/handler/dashboard"
	inventoryhandler "github.com/hemovault/bloodbank-api/internal/handler/inventory"
	"github.com/hemovault/bloodbank-api/internal/middleware"
	"github.com/hemovault/bloodbank-api/internal/model"
	"github.com/hemovault/bloodbank-api/pkg/event"
)

// EventHandler is a handler whose mutating routes publish outbox events.
type EventHandler interface {
	RegisterRoutesWithEvents(*gin.RouterGroup, *event.EventTrackerMiddleware)
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        *authhandler.Handler
	userH        EventHandler
	inventoryH   *inventoryhandler.Handler
	donationH    EventHandler
	appointmentH EventHandler
	requestH     EventHandler
	dashboardH   *dashboardhandler.Handler
	h            *handler.Handler
	eventTracker *event.EventTrackerMiddleware
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimitRPS   float64
	RateBurst      int
	RequestTimeout time.Duration
	CORSConfig     middleware.CORSConfig
	MetricsPrefix  string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authhandler.Handler,
	userH EventHandler,
	inventoryH *inventoryhandler.Handler,
	donationH EventHandler,
	appointmentH EventHandler,
	requestH EventHandler,
	dashboardH *dashboardhandler.Handler,
	h *handler.Handler,
	eventTracker *event.EventTrackerMiddleware,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	registerValidators()

	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}

	r := &Router{
		engine:       engine,
		auth:         auth,
		authH:        authH,
		userH:        userH,
		inventoryH:   inventoryH,
		donationH:    donationH,
		appointmentH: appointmentH,
		requestH:     requestH,
		dashboardH:   dashboardH,
		h:            h,
		eventTracker: eventTracker,
		metrics:      initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}),
		middleware.CORS(config.CORSConfig),
	)

	if config.RateLimitRPS > 0 {
		rateLimiter := middleware.NewRateLimiter(config.RateLimitRPS, config.RateBurst)
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

// registerValidators wires custom binding tags into gin's validator engine.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bloodtype", func(fl validator.FieldLevel) bool {
			return model.BloodType(fl.Field().String()).Valid()
		})
	}
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	// Public routes
	r.authH.RegisterPublicRoutes(api, r.eventTracker)
	r.inventoryH.RegisterPublicRoutes(api)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.authH.RegisterProtectedRoutes(protected)
	r.userH.RegisterRoutesWithEvents(protected, r.eventTracker)
	r.donationH.RegisterRoutesWithEvents(protected, r.eventTracker)
	r.appointmentH.RegisterRoutesWithEvents(protected, r.eventTracker)
	r.requestH.RegisterRoutesWithEvents(protected, r.eventTracker)

	// Inventory writes and the dashboard are restricted up front; the
	// services still enforce the same checks.
	admin := protected.Group("")
	admin.Use(r.auth.RequireAdmin())
	r.inventoryH.RegisterRoutesWithEvents(admin, r.eventTracker)
	r.dashboardH.RegisterRoutes(admin.Group("/admin"))
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler())
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
