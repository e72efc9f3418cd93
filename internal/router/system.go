package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of the
// people/activities dataset.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.Meta.Home).Name = "home"
	r.GET("/test", h.Meta.TestConnection).Name = "test_connection"
	r.GET("/debug", h.Meta.Debug).Name = "debug_env"
	r.GET("/routes", h.Meta.Routes).Name = "list_routes"

	r.GET("/status", h.Health.CheckHealth).Name = "health_check"

	// openapi.json and openapi.html live here.
	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI).Name = "docs"
}
