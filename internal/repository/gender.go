package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/deppfellow/people-api/internal/database"
	"github.com/deppfellow/people-api/internal/model"
)

type GenderRepository struct{}

func listGendersQuery() sq.SelectBuilder {
	return psql.Select("gender_id", "gender_name").From("gender").OrderBy("gender_id")
}

func genderIDQuery(name string) sq.SelectBuilder {
	return psql.Select("gender_id").From("gender").Where(sq.Eq{"gender_name": name})
}

// List returns every gender ordered by gender_id.
func (r *GenderRepository) List(ctx context.Context, q database.Querier) ([]model.Gender, error) {
	return collect[model.Gender](ctx, q, "ListGenders", listGendersQuery())
}

// IDByName resolves an exact gender name. An unknown name yields nil, not an error.
func (r *GenderRepository) IDByName(ctx context.Context, q database.Querier, name string) (*int64, error) {
	sqlStr, args, err := genderIDQuery(name).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build SQL for GenderIDByName")
	}

	var id int64
	err = q.QueryRow(ctx, sqlStr, args...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute GenderIDByName for %q", name)
	}
	return &id, nil
}
