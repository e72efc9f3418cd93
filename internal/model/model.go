// Package model holds the records read from and written to the database.
//
// Field tags:
//   - db: column names used by pgx.RowToStructByName
//   - json: the keys clients see, identical to the column names
//
// Every column that an update may set to NULL is a pointer so it renders
// as JSON null. Partial updates turn "" into NULL, so that covers names too.
package model

import "time"

// Person is a row of people joined with its gender name.
type Person struct {
	ID         int64      `db:"id" json:"id"`
	FirstName  *string    `db:"first_name" json:"first_name"`
	LastName   *string    `db:"last_name" json:"last_name"`
	Email      *string    `db:"email" json:"email"`
	GenderName *string    `db:"gender_name" json:"gender_name"`
	Contact    *string    `db:"contact" json:"contact"`
	MotherName *string    `db:"mother_name" json:"mother_name"`
	CreatedAt  *time.Time `db:"created_at" json:"created_at"`
}

// NewPerson is the data needed to insert a person. GenderID is already resolved.
type NewPerson struct {
	FirstName  string
	LastName   string
	Email      string
	GenderID   *int64
	Contact    *string
	MotherName *string
}

// Gender is a reference row. The table is read-only for this service.
type Gender struct {
	GenderID   int64  `db:"gender_id" json:"gender_id"`
	GenderName string `db:"gender_name" json:"gender_name"`
}

// Activity is an activities row joined with its person's names.
type Activity struct {
	ActivityID int64      `db:"activity_id" json:"activity_id"`
	PersonID   int64      `db:"person_id" json:"person_id"`
	FirstName  *string    `db:"first_name" json:"first_name"`
	LastName   *string    `db:"last_name" json:"last_name"`
	Activity1  *bool      `db:"activity1" json:"activity1"`
	Activity2  *bool      `db:"activity2" json:"activity2"`
	Transport  *bool      `db:"transport" json:"transport"`
	CreatedAt  *time.Time `db:"created_at" json:"created_at"`
}

// ProjectedPerson is a row of the flattened activity1 and transport views.
type ProjectedPerson struct {
	ID         int64      `db:"id" json:"id"`
	FirstName  *string    `db:"first_name" json:"first_name"`
	LastName   *string    `db:"last_name" json:"last_name"`
	Email      *string    `db:"email" json:"email"`
	Gender     *string    `db:"gender" json:"gender"`
	Contact    *string    `db:"contact" json:"contact"`
	MotherName *string    `db:"mother_name" json:"mother_name"`
	Activity1  *bool      `db:"activity1" json:"activity1"`
	Activity2  *bool      `db:"activity2" json:"activity2"`
	Transport  *bool      `db:"transport" json:"transport"`
	CreatedAt  *time.Time `db:"created_at" json:"created_at"`
}
