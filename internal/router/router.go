// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/handler"
	"github.com/deppfellow/people-api/internal/middleware"
	"github.com/deppfellow/people-api/internal/server"
	"github.com/deppfellow/people-api/internal/service"
)

// NewRouter builds the echo instance with the global middleware chain and
// every route of the API.
func NewRouter(s *server.Server, services *service.Services) *echo.Echo {
	r := echo.New()
	r.HideBanner = true
	r.HidePort = true

	middlewares := middleware.NewMiddlewares(s)
	r.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request id must exist before the context logger
	// reads it, and the logger must exist before anything logs.
	r.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
	)

	h := handler.NewHandlers(s, services, r.Routes)

	registerSystemRoutes(r, h)
	registerPeopleRoutes(r, h)
	registerActivityRoutes(r, h)
	registerReferenceRoutes(r, h)

	return r
}
