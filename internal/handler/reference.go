package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/model"
	"github.com/deppfellow/people-api/internal/repository"
	"github.com/deppfellow/people-api/internal/server"
	"github.com/deppfellow/people-api/internal/sqlerr"
)

type referenceService interface {
	Genders(ctx context.Context) ([]model.Gender, error)
	View(ctx context.Context, view repository.View) ([]model.ProjectedPerson, error)
}

type ReferenceHandler struct {
	Handler
	reference referenceService
}

func NewReferenceHandler(s *server.Server, reference referenceService) *ReferenceHandler {
	return &ReferenceHandler{
		Handler:   NewHandler(s),
		reference: reference,
	}
}

type ListGendersResponse struct {
	Genders []model.Gender `json:"genders"`
	Count   int            `json:"count"`
	Message string         `json:"message"`
}

func (r *ListGendersResponse) ResultCount() int { return r.Count }

// ViewResponse renders rows under a key named after the view
// ("activity1_people", "transport_people").
type ViewResponse struct {
	key     string
	People  []model.ProjectedPerson
	Count   int
	Message string
}

func (r *ViewResponse) ResultCount() int { return r.Count }

func (r *ViewResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		r.key:     r.People,
		"count":   r.Count,
		"message": r.Message,
	})
}

func (h *ReferenceHandler) ListGenders(c echo.Context, _ *EmptyRequest) (*ListGendersResponse, error) {
	genders, err := h.reference.Genders(c.Request().Context())
	if err != nil {
		return nil, sqlerr.HandleError(err, "Failed to retrieve genders from database")
	}
	if genders == nil {
		genders = []model.Gender{}
	}

	return &ListGendersResponse{
		Genders: genders,
		Count:   len(genders),
		Message: fmt.Sprintf("Successfully retrieved %d gender types", len(genders)),
	}, nil
}

func (h *ReferenceHandler) listView(c echo.Context, view repository.View) (*ViewResponse, error) {
	rows, err := h.reference.View(c.Request().Context(), view)
	if err != nil {
		return nil, sqlerr.HandleError(err, fmt.Sprintf("Failed to retrieve %s people from database", view))
	}
	if rows == nil {
		rows = []model.ProjectedPerson{}
	}

	return &ViewResponse{
		key:     string(view) + "_people",
		People:  rows,
		Count:   len(rows),
		Message: fmt.Sprintf("Successfully retrieved %d people with %s = true", len(rows), view),
	}, nil
}

func (h *ReferenceHandler) ListActivity1People(c echo.Context, _ *EmptyRequest) (*ViewResponse, error) {
	return h.listView(c, repository.ViewActivity1)
}

func (h *ReferenceHandler) ListTransportPeople(c echo.Context, _ *EmptyRequest) (*ViewResponse, error) {
	return h.listView(c, repository.ViewTransport)
}
