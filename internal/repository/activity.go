package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/deppfellow/people-api/internal/database"
	"github.com/deppfellow/people-api/internal/model"
)

type ActivityRepository struct{}

func activitySelect() sq.SelectBuilder {
	return psql.Select(
		"a.activity_id", "a.person_id", "p.first_name", "p.last_name",
		"a.activity1", "a.activity2", "a.transport", "a.created_at",
	).
		From("activities a").
		Join("people p ON a.person_id = p.id")
}

func listActivitiesQuery() sq.SelectBuilder {
	return activitySelect().OrderBy("a.activity_id").Limit(ListLimit)
}

func listActivitiesByPersonQuery(personID int64) sq.SelectBuilder {
	return activitySelect().Where(sq.Eq{"a.person_id": personID})
}

// List returns up to ListLimit activity rows ordered by activity_id.
func (r *ActivityRepository) List(ctx context.Context, q database.Querier) ([]model.Activity, error) {
	return collect[model.Activity](ctx, q, "ListActivities", listActivitiesQuery())
}

// ListByPerson returns every activity row of one person, uncapped.
func (r *ActivityRepository) ListByPerson(ctx context.Context, q database.Querier, personID int64) ([]model.Activity, error) {
	return collect[model.Activity](ctx, q, "ListActivitiesByPerson", listActivitiesByPersonQuery(personID))
}

func insertDefaultActivitiesQuery(personID int64) sq.InsertBuilder {
	return psql.Insert("activities").
		Columns("person_id", "activity1", "activity2", "transport").
		Values(personID, sq.Expr("FALSE"), sq.Expr("FALSE"), sq.Expr("FALSE"))
}

// InsertDefault stores the all-false activities row that every new person gets.
func (r *ActivityRepository) InsertDefault(ctx context.Context, q database.Querier, personID int64) error {
	sqlStr, args, err := insertDefaultActivitiesQuery(personID).ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build SQL for InsertDefaultActivities")
	}

	if _, err := q.Exec(ctx, sqlStr, args...); err != nil {
		return errors.Wrapf(err, "failed to execute InsertDefaultActivities for person %d", personID)
	}
	return nil
}

// Update applies a partial update keyed by activity_id.
func (r *ActivityRepository) Update(ctx context.Context, q database.Querier, activityID int64, assignments []Assignment) (int64, error) {
	return execUpdate(ctx, q, "UpdateActivities", "activities", "activity_id", activityID, assignments)
}
