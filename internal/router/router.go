package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mkhomytsya/table-reservation/internal/config"
	"github.com/mkhomytsya/table-reservation/internal/handler"
	"github.com/mkhomytsya/table-reservation/internal/middleware"
)

// Register wires every route of the service onto the provided Echo
// instance.  Auth endpoints are open; the catalog is open but cached;
// the reservation endpoints require a valid access token and sit behind
// the rate limiter.
func Register(
	e *echo.Echo,
	cfg config.Config,
	rdb *redis.Client,
	auth *handler.AuthHandler,
	tables *handler.TableHandler,
	reservations *handler.ReservationHandler,
) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Staff account registration and login.
	a := e.Group("/v1/auth")
	a.POST("/register", auth.Register)
	a.POST("/login", auth.Login)

	// Public catalog, listing served from the response cache when warm.
	e.GET("/v1/tables", tables.List,
		middleware.ResponseCache(config.LoadCacheConfig(), rdb))
	e.GET("/v1/tables/:id", tables.Get)

	// Booking operations: token required, rate limited per IP and route.
	r := e.Group("/v1/reservations")
	r.Use(middleware.JWTAuth(cfg.JWTSecret))
	r.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	r.POST("", reservations.Create)
	r.GET("", reservations.List)
	r.GET("/:id", reservations.Get)
	r.PUT("/:id", reservations.Update)
	r.DELETE("/:id", reservations.Delete)
}
