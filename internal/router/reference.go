package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/handler"
)

// registerReferenceRoutes registers the read-only lookups: the gender table
// and the two flattened views.
func registerReferenceRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/gender", handler.Handle(h.Reference.Handler, h.Reference.ListGenders, http.StatusOK)).
		Name = "get_genders"
	r.GET("/activity1", handler.Handle(h.Reference.Handler, h.Reference.ListActivity1People, http.StatusOK)).
		Name = "get_activity1_people"
	r.GET("/transport", handler.Handle(h.Reference.Handler, h.Reference.ListTransportPeople, http.StatusOK)).
		Name = "get_transport_people"
}
