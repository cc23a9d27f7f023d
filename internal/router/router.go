package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/notaio/notaio-backend/internal/handler"
)

// RegisterRoutes registers routes that need no authentication or
// dependencies. Currently that is only the health check used by load
// balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Registration and
// login are unauthenticated but rate limited; /v1/me requires a valid
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authn, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	e.GET("/v1/me", a.Me, authn)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// psychologist marketplace and a psychologist's published availability.
// Both sit behind the response cache.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/psychologists", p.ListPsychologists, cache)
	e.GET("/v1/availability/psychologist/:id", p.PsychologistAvailability, cache)
}
