package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/server"
	"github.com/deppfellow/people-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router setup
// passes one object around instead of many.
type Handlers struct {
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
	Meta       *MetaHandler
	People     *PeopleHandler
	Activities *ActivitiesHandler
	Reference  *ReferenceHandler
}

// NewHandlers constructs the handler container.
//
// routes lists the routes registered on the router; /routes reads it on
// every request.
func NewHandlers(s *server.Server, services *service.Services, routes func() []*echo.Route) *Handlers {
	// A nil *database.Database must not become a non-nil pinger.
	var db pinger
	if s.DB != nil {
		db = s.DB
	}

	return &Handlers{
		Health:     NewHealthHandler(s, db),
		OpenAPI:    NewOpenAPIHandler(s),
		Meta:       NewMetaHandler(s, routes),
		People:     NewPeopleHandler(s, services.People),
		Activities: NewActivitiesHandler(s, services.Activities),
		Reference:  NewReferenceHandler(s, services.Reference),
	}
}
