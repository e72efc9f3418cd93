package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/deppfellow/people-api/internal/database"
	"github.com/deppfellow/people-api/internal/model"
)

type PersonRepository struct{}

func personSelect() sq.SelectBuilder {
	return psql.Select(
		"p.id", "p.first_name", "p.last_name", "p.email", "g.gender_name",
		"p.contact", "p.mother_name", "p.created_at",
	).
		From("people p").
		LeftJoin("gender g ON p.gender_id = g.gender_id")
}

func listPeopleQuery() sq.SelectBuilder {
	return personSelect().OrderBy("p.id").Limit(ListLimit)
}

func getPersonQuery(id int64) sq.SelectBuilder {
	return personSelect().Where(sq.Eq{"p.id": id})
}

// List returns up to ListLimit people ordered by id.
func (r *PersonRepository) List(ctx context.Context, q database.Querier) ([]model.Person, error) {
	return collect[model.Person](ctx, q, "ListPeople", listPeopleQuery())
}

// GetByID returns one person. A missing row surfaces as pgx.ErrNoRows.
func (r *PersonRepository) GetByID(ctx context.Context, q database.Querier, id int64) (*model.Person, error) {
	sqlStr, args, err := getPersonQuery(id).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build SQL for GetPerson")
	}

	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute GetPerson for ID %d", id)
	}

	person, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Person])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get person %d", id)
	}
	return &person, nil
}

// Exists reports whether a person with id is stored.
func (r *PersonRepository) Exists(ctx context.Context, q database.Querier, id int64) (bool, error) {
	sqlStr, args, err := psql.Select("id").From("people").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, errors.Wrap(err, "failed to build SQL for PersonExists")
	}

	var found int64
	err = q.QueryRow(ctx, sqlStr, args...).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to execute PersonExists for ID %d", id)
	}
	return true, nil
}

func insertPersonQuery(p model.NewPerson) sq.InsertBuilder {
	return psql.Insert("people").
		Columns("first_name", "last_name", "email", "gender_id", "contact", "mother_name").
		Values(p.FirstName, p.LastName, p.Email, p.GenderID, p.Contact, p.MotherName).
		Suffix("RETURNING id")
}

// Insert stores a person and returns the generated id.
func (r *PersonRepository) Insert(ctx context.Context, q database.Querier, p model.NewPerson) (int64, error) {
	sqlStr, args, err := insertPersonQuery(p).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build SQL for InsertPerson")
	}

	var id int64
	if err := q.QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "failed to execute InsertPerson")
	}
	return id, nil
}

// Update applies a partial update to one person and returns the rows affected.
// It does not check that the person exists.
func (r *PersonRepository) Update(ctx context.Context, q database.Querier, id int64, assignments []Assignment) (int64, error) {
	return execUpdate(ctx, q, "UpdatePerson", "people", "id", id, assignments)
}

// Delete removes a person. Its activities go with it through the foreign key cascade.
func (r *PersonRepository) Delete(ctx context.Context, q database.Querier, id int64) (int64, error) {
	sqlStr, args, err := psql.Delete("people").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build SQL for DeletePerson")
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to execute DeletePerson for ID %d", id)
	}
	return tag.RowsAffected(), nil
}
