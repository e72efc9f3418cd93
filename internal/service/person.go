package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/deppfellow/people-api/internal/database"
	"github.com/deppfellow/people-api/internal/errs"
	"github.com/deppfellow/people-api/internal/model"
)

type PersonService struct {
	db         ConnAcquirer
	people     personStore
	activities activityStore
	genders    genderStore
}

func NewPersonService(db ConnAcquirer, people personStore, activities activityStore, genders genderStore) *PersonService {
	return &PersonService{
		db:         db,
		people:     people,
		activities: activities,
		genders:    genders,
	}
}

// CreatePersonInput is a validated create request. Gender is a name, not an id.
type CreatePersonInput struct {
	FirstName  string
	LastName   string
	Email      string
	Gender     *string
	Contact    *string
	MotherName *string
}

func personNotFound(id int64) error {
	return errs.NewNotFoundError(fmt.Sprintf("Person with ID %d not found", id), true, nil)
}

func (s *PersonService) List(ctx context.Context) ([]model.Person, error) {
	var people []model.Person
	err := s.db.WithConn(ctx, func(conn database.Conn) error {
		var err error
		people, err = s.people.List(ctx, conn)
		return err
	})
	return people, err
}

func (s *PersonService) Get(ctx context.Context, id int64) (*model.Person, error) {
	var person *model.Person
	err := s.db.WithConn(ctx, func(conn database.Conn) error {
		var err error
		person, err = s.people.GetByID(ctx, conn, id)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, personNotFound(id)
	}
	return person, err
}

// Create stores the person and its default activities row in one
// transaction and returns the new id.
func (s *PersonService) Create(ctx context.Context, in CreatePersonInput) (int64, error) {
	var personID int64

	err := s.db.WithConn(ctx, func(conn database.Conn) error {
		return database.WithTx(ctx, conn, func(tx database.Querier) error {
			var genderID *int64
			if in.Gender != nil && *in.Gender != "" {
				id, err := s.genders.IDByName(ctx, tx, *in.Gender)
				if err != nil {
					return err
				}
				genderID = id
			}

			id, err := s.people.Insert(ctx, tx, model.NewPerson{
				FirstName:  in.FirstName,
				LastName:   in.LastName,
				Email:      in.Email,
				GenderID:   genderID,
				Contact:    in.Contact,
				MotherName: in.MotherName,
			})
			if err != nil {
				return err
			}

			if err := s.activities.InsertDefault(ctx, tx, id); err != nil {
				return err
			}

			personID = id
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return personID, nil
}

// Update applies a partial update and returns the rows affected. A missing
// person is not an error: the result is simply 0.
func (s *PersonService) Update(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	plan, err := planUpdate(personFields, fields)
	if err != nil {
		return 0, err
	}

	var affected int64
	err = s.db.WithConn(ctx, func(conn database.Conn) error {
		assignments, err := resolve(ctx, conn, s.genders, plan)
		if err != nil {
			return err
		}
		affected, err = s.people.Update(ctx, conn, id, assignments)
		return err
	})
	return affected, err
}

// Delete removes the person after checking it exists.
func (s *PersonService) Delete(ctx context.Context, id int64) error {
	return s.db.WithConn(ctx, func(conn database.Conn) error {
		exists, err := s.people.Exists(ctx, conn, id)
		if err != nil {
			return err
		}
		if !exists {
			return personNotFound(id)
		}

		_, err = s.people.Delete(ctx, conn, id)
		return err
	})
}
