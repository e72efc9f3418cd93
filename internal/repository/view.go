package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/deppfellow/people-api/internal/database"
	"github.com/deppfellow/people-api/internal/model"
)

// View names a flattened person + activities projection maintained by the database.
type View string

const (
	ViewActivity1 View = "activity1"
	ViewTransport View = "transport"
)

// ViewRepository reads the derived views. They are never written.
type ViewRepository struct{}

func listViewQuery(view View) sq.SelectBuilder {
	return psql.Select(
		"id", "first_name", "last_name", "email", "gender", "contact", "mother_name",
		"activity1", "activity2", "transport", "created_at",
	).
		From(string(view)).
		OrderBy("id").
		Limit(ListLimit)
}

// List returns up to ListLimit rows of view ordered by id.
func (r *ViewRepository) List(ctx context.Context, q database.Querier, view View) ([]model.ProjectedPerson, error) {
	return collect[model.ProjectedPerson](ctx, q, "ListView "+string(view), listViewQuery(view))
}
