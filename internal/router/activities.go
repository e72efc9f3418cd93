package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/handler"
	"github.com/deppfellow/people-api/internal/middleware"
)

func registerActivityRoutes(r *echo.Echo, h *handler.Handlers) {
	activities := r.Group("/activities")
	idParam := middleware.IntParam("id")

	activities.GET("", handler.Handle(h.Activities.Handler, h.Activities.ListActivities, http.StatusOK)).
		Name = "get_activities"
	activities.GET("/person/:id", handler.Handle(h.Activities.Handler, h.Activities.ListActivitiesByPerson, http.StatusOK), idParam).
		Name = "get_person_activities"
	activities.PUT("/:id", handler.Handle(h.Activities.Handler, h.Activities.UpdateActivities, http.StatusOK), idParam).
		Name = "update_activities"
}
