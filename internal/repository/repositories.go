// Package repository handles all interactions with the database.
//
// Every statement is built with squirrel using $n placeholders, so values
// are always bound and never spliced into SQL text. Methods receive the
// database.Querier to run on, which lets the service decide whether a
// statement runs on a plain connection or inside a transaction.
package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/deppfellow/people-api/internal/database"
)

// ListLimit caps every list query.
const ListLimit = 50

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repositories is a container for all repository instances.
type Repositories struct {
	People     *PersonRepository
	Activities *ActivityRepository
	Genders    *GenderRepository
	Views      *ViewRepository
}

// NewRepositories constructs the repository container.
func NewRepositories() *Repositories {
	return &Repositories{
		People:     &PersonRepository{},
		Activities: &ActivityRepository{},
		Genders:    &GenderRepository{},
		Views:      &ViewRepository{},
	}
}

// Assignment is one "column = value" pair of a partial update.
// A nil Value writes NULL.
type Assignment struct {
	Column string
	Value  any
}

// updateQuery renders UPDATE table SET ... WHERE key = id.
func updateQuery(table, key string, id int64, assignments []Assignment) sq.UpdateBuilder {
	builder := psql.Update(table)
	for _, a := range assignments {
		builder = builder.Set(a.Column, a.Value)
	}
	return builder.Where(sq.Eq{key: id})
}

// execUpdate runs a partial update and returns the number of rows it touched.
func execUpdate(ctx context.Context, q database.Querier, name, table, key string, id int64, assignments []Assignment) (int64, error) {
	if len(assignments) == 0 {
		return 0, errors.Errorf("%s: no columns to update", name)
	}

	sqlStr, args, err := updateQuery(table, key, id, assignments).ToSql()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to build SQL for %s", name)
	}

	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to execute %s for ID %d", name, id)
	}
	return tag.RowsAffected(), nil
}

// collect runs a select and maps every row onto T by column name.
func collect[T any](ctx context.Context, q database.Querier, name string, builder sq.SelectBuilder) ([]T, error) {
	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build SQL for %s", name)
	}

	rows, err := q.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute %s", name)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan rows for %s", name)
	}
	return items, nil
}
