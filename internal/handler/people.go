package handler

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/model"
	"github.com/deppfellow/people-api/internal/server"
	"github.com/deppfellow/people-api/internal/service"
	"github.com/deppfellow/people-api/internal/sqlerr"
)

type peopleService interface {
	List(ctx context.Context) ([]model.Person, error)
	Get(ctx context.Context, id int64) (*model.Person, error)
	Create(ctx context.Context, in service.CreatePersonInput) (int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type PeopleHandler struct {
	Handler
	people peopleService
}

func NewPeopleHandler(s *server.Server, people peopleService) *PeopleHandler {
	return &PeopleHandler{
		Handler: NewHandler(s),
		people:  people,
	}
}

type ListPeopleResponse struct {
	People  []model.Person `json:"people"`
	Count   int            `json:"count"`
	Message string         `json:"message"`
}

func (r *ListPeopleResponse) ResultCount() int { return r.Count }

type PersonResponse struct {
	Person  *model.Person `json:"person"`
	Message string        `json:"message"`
}

type CreatePersonResponse struct {
	Message  string `json:"message"`
	PersonID int64  `json:"person_id"`
}

type UpdateResponse struct {
	Message      string `json:"message"`
	RowsAffected int64  `json:"rows_affected"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (h *PeopleHandler) ListPeople(c echo.Context, _ *EmptyRequest) (*ListPeopleResponse, error) {
	people, err := h.people.List(c.Request().Context())
	if err != nil {
		return nil, sqlerr.HandleError(err, "Failed to retrieve people from database")
	}
	if people == nil {
		people = []model.Person{}
	}

	return &ListPeopleResponse{
		People:  people,
		Count:   len(people),
		Message: fmt.Sprintf("Successfully retrieved %d people", len(people)),
	}, nil
}

func (h *PeopleHandler) GetPerson(c echo.Context, req *IDRequest) (*PersonResponse, error) {
	person, err := h.people.Get(c.Request().Context(), req.ID)
	if err != nil {
		return nil, sqlerr.HandleError(err, fmt.Sprintf("Failed to retrieve person %d from database", req.ID))
	}

	return &PersonResponse{
		Person:  person,
		Message: fmt.Sprintf("Successfully retrieved person %d", req.ID),
	}, nil
}

func (h *PeopleHandler) CreatePerson(c echo.Context, req *CreatePersonRequest) (*CreatePersonResponse, error) {
	id, err := h.people.Create(c.Request().Context(), service.CreatePersonInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Gender:     req.Gender,
		Contact:    req.Contact,
		MotherName: req.MotherName,
	})
	if err != nil {
		return nil, sqlerr.HandleError(err, "Failed to add person")
	}

	return &CreatePersonResponse{
		Message:  "Person added successfully",
		PersonID: id,
	}, nil
}

func (h *PeopleHandler) UpdatePerson(c echo.Context, req *PartialUpdateRequest) (*UpdateResponse, error) {
	affected, err := h.people.Update(c.Request().Context(), req.ID, req.Fields)
	if err != nil {
		return nil, sqlerr.HandleError(err, fmt.Sprintf("Failed to update person %d", req.ID))
	}

	return &UpdateResponse{
		Message:      fmt.Sprintf("Person %d updated successfully", req.ID),
		RowsAffected: affected,
	}, nil
}

func (h *PeopleHandler) DeletePerson(c echo.Context, req *IDRequest) (*MessageResponse, error) {
	if err := h.people.Delete(c.Request().Context(), req.ID); err != nil {
		return nil, sqlerr.HandleError(err, fmt.Sprintf("Failed to delete person %d", req.ID))
	}

	return &MessageResponse{
		Message: fmt.Sprintf("Person %d deleted successfully", req.ID),
	}, nil
}
