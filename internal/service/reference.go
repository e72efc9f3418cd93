package service

import (
	"context"

	"github.com/deppfellow/people-api/internal/database"
	"github.com/deppfellow/people-api/internal/model"
	"github.com/deppfellow/people-api/internal/repository"
)

// ReferenceService serves the read-only data: genders and the derived views.
type ReferenceService struct {
	db      ConnAcquirer
	genders genderStore
	views   viewStore
}

func NewReferenceService(db ConnAcquirer, genders genderStore, views viewStore) *ReferenceService {
	return &ReferenceService{db: db, genders: genders, views: views}
}

func (s *ReferenceService) Genders(ctx context.Context) ([]model.Gender, error) {
	var genders []model.Gender
	err := s.db.WithConn(ctx, func(conn database.Conn) error {
		var err error
		genders, err = s.genders.List(ctx, conn)
		return err
	})
	return genders, err
}

// View returns up to 50 rows of a derived view.
func (s *ReferenceService) View(ctx context.Context, view repository.View) ([]model.ProjectedPerson, error) {
	var rows []model.ProjectedPerson
	err := s.db.WithConn(ctx, func(conn database.Conn) error {
		var err error
		rows, err = s.views.List(ctx, conn, view)
		return err
	})
	return rows, err
}
