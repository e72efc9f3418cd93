package service

import (
	"context"

	"github.com/deppfellow/people-api/internal/database"
	"github.com/deppfellow/people-api/internal/model"
)

type ActivityService struct {
	db         ConnAcquirer
	activities activityStore
}

func NewActivityService(db ConnAcquirer, activities activityStore) *ActivityService {
	return &ActivityService{db: db, activities: activities}
}

func (s *ActivityService) List(ctx context.Context) ([]model.Activity, error) {
	var activities []model.Activity
	err := s.db.WithConn(ctx, func(conn database.Conn) error {
		var err error
		activities, err = s.activities.List(ctx, conn)
		return err
	})
	return activities, err
}

func (s *ActivityService) ListByPerson(ctx context.Context, personID int64) ([]model.Activity, error) {
	var activities []model.Activity
	err := s.db.WithConn(ctx, func(conn database.Conn) error {
		var err error
		activities, err = s.activities.ListByPerson(ctx, conn, personID)
		return err
	})
	return activities, err
}

// Update sets any of the three flags on one activities row and returns the rows affected.
func (s *ActivityService) Update(ctx context.Context, activityID int64, fields map[string]any) (int64, error) {
	plan, err := planUpdate(activityFields, fields)
	if err != nil {
		return 0, err
	}

	var affected int64
	err = s.db.WithConn(ctx, func(conn database.Conn) error {
		// Flags never need a lookup, so no gender store is passed.
		assignments, err := resolve(ctx, conn, nil, plan)
		if err != nil {
			return err
		}
		affected, err = s.activities.Update(ctx, conn, activityID, assignments)
		return err
	})
	return affected, err
}
