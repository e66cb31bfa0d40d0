package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework handles the routing
	"github.com/redis/go-redis/v9"

	"github.com/cinetix/booking-backend/internal/config"
	"github.com/cinetix/booking-backend/internal/handler"
	"github.com/cinetix/booking-backend/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account endpoints and the protected /v1/me
// route. Register and login live under /v1/auth and need no session;
// /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterBrowse registers the unauthenticated catalog endpoints. The
// slow-changing lists (genres, theaters, seat maps, screening listings)
// sit behind the Redis response cache; per-screening seat availability
// deliberately does not, since a stale availability map would mislead
// the seat picker.
func RegisterBrowse(e *echo.Echo, b *handler.BrowseHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cached := e.Group("/v1", middleware.NewRedisCache(cacheCfg, rdb))
	cached.GET("/genres", b.ListGenres)
	cached.GET("/theaters", b.ListTheaters)
	cached.GET("/theaters/:id/seats", b.ListTheaterSeats)
	cached.GET("/screenings", b.ListScreenings)

	// live data, never cached
	e.GET("/v1/screenings/:id/seats", b.GetScreeningSeats)
}

// RegisterBooking registers the booking endpoints. Everything here acts
// on behalf of an authenticated customer, including the payment gateway
// callbacks which our demo gateway drives with the customer's token.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("CUSTOMER", "ADMIN"))

	g.POST("/bookings", h.CreateBooking)
	g.POST("/payments/:txn_id/complete", h.CompletePayment)
	g.POST("/payments/:txn_id/fail", h.FailPayment)
	g.DELETE("/reservations/:id", h.CancelBooking)
	g.GET("/me/reservations", h.MyReservations)
}
