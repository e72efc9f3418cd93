package handler

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/model"
	"github.com/deppfellow/people-api/internal/server"
	"github.com/deppfellow/people-api/internal/sqlerr"
)

type activityService interface {
	List(ctx context.Context) ([]model.Activity, error)
	ListByPerson(ctx context.Context, personID int64) ([]model.Activity, error)
	Update(ctx context.Context, activityID int64, fields map[string]any) (int64, error)
}

type ActivitiesHandler struct {
	Handler
	activities activityService
}

func NewActivitiesHandler(s *server.Server, activities activityService) *ActivitiesHandler {
	return &ActivitiesHandler{
		Handler:    NewHandler(s),
		activities: activities,
	}
}

type ListActivitiesResponse struct {
	Activities []model.Activity `json:"activities"`
	Count      int              `json:"count"`
	Message    string           `json:"message"`
}

func (r *ListActivitiesResponse) ResultCount() int { return r.Count }

func newListActivitiesResponse(activities []model.Activity, message string) *ListActivitiesResponse {
	if activities == nil {
		activities = []model.Activity{}
	}
	return &ListActivitiesResponse{
		Activities: activities,
		Count:      len(activities),
		Message:    message,
	}
}

func (h *ActivitiesHandler) ListActivities(c echo.Context, _ *EmptyRequest) (*ListActivitiesResponse, error) {
	activities, err := h.activities.List(c.Request().Context())
	if err != nil {
		return nil, sqlerr.HandleError(err, "Failed to retrieve activities from database")
	}

	return newListActivitiesResponse(activities,
		fmt.Sprintf("Successfully retrieved %d activities", len(activities))), nil
}

func (h *ActivitiesHandler) ListActivitiesByPerson(c echo.Context, req *IDRequest) (*ListActivitiesResponse, error) {
	activities, err := h.activities.ListByPerson(c.Request().Context(), req.ID)
	if err != nil {
		return nil, sqlerr.HandleError(err, fmt.Sprintf("Failed to retrieve activities for person %d", req.ID))
	}

	return newListActivitiesResponse(activities,
		fmt.Sprintf("Successfully retrieved activities for person %d", req.ID)), nil
}

func (h *ActivitiesHandler) UpdateActivities(c echo.Context, req *PartialUpdateRequest) (*UpdateResponse, error) {
	affected, err := h.activities.Update(c.Request().Context(), req.ID, req.Fields)
	if err != nil {
		return nil, sqlerr.HandleError(err, fmt.Sprintf("Failed to update activities %d", req.ID))
	}

	return &UpdateResponse{
		Message:      fmt.Sprintf("Activities %d updated successfully", req.ID),
		RowsAffected: affected,
	}, nil
}
