package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/handler"
	"github.com/deppfellow/people-api/internal/middleware"
)

func registerPeopleRoutes(r *echo.Echo, h *handler.Handlers) {
	people := r.Group("/people")
	idParam := middleware.IntParam("id")

	people.GET("", handler.Handle(h.People.Handler, h.People.ListPeople, http.StatusOK)).
		Name = "get_people"
	people.POST("", handler.Handle(h.People.Handler, h.People.CreatePerson, http.StatusCreated)).
		Name = "add_person"
	people.GET("/:id", handler.Handle(h.People.Handler, h.People.GetPerson, http.StatusOK), idParam).
		Name = "get_person"
	people.PUT("/:id", handler.Handle(h.People.Handler, h.People.UpdatePerson, http.StatusOK), idParam).
		Name = "update_person"
	people.DELETE("/:id", handler.Handle(h.People.Handler, h.People.DeletePerson, http.StatusOK), idParam).
		Name = "delete_person"
}
