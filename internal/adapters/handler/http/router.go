package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/onedo/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/onedo/internal/core/services"
)

// HealthCheck reports whether one backing component is reachable.
type HealthCheck func(ctx context.Context) error

type RouterDependencies struct {
	AuthHandler       *AuthHandler
	HabitHandler      *HabitHandler
	CompletionHandler *CompletionHandler
	StatsHandler      *StatsHandler
	// TokenService protects the API when set and enabled.
	TokenService *services.TokenService
	// Redis enables the rate limiter when set.
	Redis       *redis.Client
	RateLimit   int
	RateWindow  time.Duration
	HealthCheck map[string]HealthCheck
	StartTime   time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.Use(middleware.CORS())

	if deps.Redis != nil {
		limit, window := deps.RateLimit, deps.RateWindow
		if limit <= 0 {
			limit = 100
		}
		if window <= 0 {
			window = time.Minute
		}
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, limit, window))
	}

	router.GET("/health", func(c *gin.Context) {
		statusCode := http.StatusOK
		body := gin.H{
			"status": "ok",
			"uptime": time.Since(deps.StartTime).String(),
		}

		for name, check := range deps.HealthCheck {
			if err := check(c.Request.Context()); err != nil {
				body[name] = "unreachable"
				statusCode = http.StatusServiceUnavailable
				continue
			}
			body[name] = "connected"
		}
		if statusCode != http.StatusOK {
			body["status"] = "degraded"
		}

		c.JSON(statusCode, body)
	})

	apiV1 := router.Group("/api/v1")

	protected := apiV1.Group("")
	if deps.TokenService.Enabled() && deps.AuthHandler != nil {
		deps.AuthHandler.RegisterRoutes(apiV1)
		protected.Use(middleware.AuthMiddleware(deps.TokenService))
	}

	deps.HabitHandler.RegisterRoutes(protected)
	deps.CompletionHandler.RegisterRoutes(protected)
	deps.StatsHandler.RegisterRoutes(protected)

	return router
}
