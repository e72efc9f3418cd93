package service

import (
	"context"

	"github.com/deppfellow/people-api/internal/database"
	"github.com/deppfellow/people-api/internal/model"
	"github.com/deppfellow/people-api/internal/repository"
)

// ConnAcquirer hands out one scoped connection per unit of work.
// *database.Database satisfies it.
type ConnAcquirer interface {
	WithConn(ctx context.Context, fn func(database.Conn) error) error
}

type personStore interface {
	List(ctx context.Context, q database.Querier) ([]model.Person, error)
	GetByID(ctx context.Context, q database.Querier, id int64) (*model.Person, error)
	Exists(ctx context.Context, q database.Querier, id int64) (bool, error)
	Insert(ctx context.Context, q database.Querier, p model.NewPerson) (int64, error)
	Update(ctx context.Context, q database.Querier, id int64, assignments []repository.Assignment) (int64, error)
	Delete(ctx context.Context, q database.Querier, id int64) (int64, error)
}

type activityStore interface {
	List(ctx context.Context, q database.Querier) ([]model.Activity, error)
	ListByPerson(ctx context.Context, q database.Querier, personID int64) ([]model.Activity, error)
	InsertDefault(ctx context.Context, q database.Querier, personID int64) error
	Update(ctx context.Context, q database.Querier, activityID int64, assignments []repository.Assignment) (int64, error)
}

type genderStore interface {
	List(ctx context.Context, q database.Querier) ([]model.Gender, error)
	IDByName(ctx context.Context, q database.Querier, name string) (*int64, error)
}

type viewStore interface {
	List(ctx context.Context, q database.Querier, view repository.View) ([]model.ProjectedPerson, error)
}

// Stores groups the repositories the services depend on.
type Stores struct {
	People     personStore
	Activities activityStore
	Genders    genderStore
	Views      viewStore
}

// StoresFrom adapts the concrete repository container.
func StoresFrom(repos *repository.Repositories) Stores {
	return Stores{
		People:     repos.People,
		Activities: repos.Activities,
		Genders:    repos.Genders,
		Views:      repos.Views,
	}
}

type Services struct {
	People     *PersonService
	Activities *ActivityService
	Reference  *ReferenceService
}

func NewServices(db ConnAcquirer, stores Stores) *Services {
	return &Services{
		People:     NewPersonService(db, stores.People, stores.Activities, stores.Genders),
		Activities: NewActivityService(db, stores.Activities),
		Reference:  NewReferenceService(db, stores.Genders, stores.Views),
	}
}
