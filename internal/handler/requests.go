package handler

import (
	"encoding/json"

	"github.com/deppfellow/people-api/internal/validation"
)

// EmptyRequest is used by endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error { return nil }

// IDRequest carries a numeric path id. The route's IntParam middleware has
// already rejected anything that is not a non-negative integer.
type IDRequest struct {
	ID int64 `param:"id"`
}

func (r *IDRequest) Validate() error { return nil }

type CreatePersonRequest struct {
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	Email      string  `json:"email" validate:"required"`
	Gender     *string `json:"gender"`
	Contact    *string `json:"contact"`
	MotherName *string `json:"mother_name"`
}

func (r *CreatePersonRequest) Validate() error {
	return validation.Struct(r)
}

// PartialUpdateRequest keeps the raw JSON object so the service can tell a
// missing key from an explicit null.
type PartialUpdateRequest struct {
	ID     int64          `param:"id"`
	Fields map[string]any `json:"-"`
}

func (r *PartialUpdateRequest) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &r.Fields)
}

// Validate leaves the field checks to the service, which owns the whitelist.
func (r *PartialUpdateRequest) Validate() error { return nil }
