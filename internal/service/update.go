package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/deppfellow/people-api/internal/database"
	"github.com/deppfellow/people-api/internal/errs"
	"github.com/deppfellow/people-api/internal/repository"
)

type fieldKind int

const (
	// kindText is a nullable text column; "" is stored as NULL.
	kindText fieldKind = iota
	// kindGender is a gender name resolved to gender_id; unknown names become NULL.
	kindGender
	// kindFlag is a nullable boolean column.
	kindFlag
)

// updateField whitelists one JSON key of a partial update and the column it writes.
type updateField struct {
	name   string
	column string
	kind   fieldKind
}

var personFields = []updateField{
	{name: "first_name", column: "first_name", kind: kindText},
	{name: "last_name", column: "last_name", kind: kindText},
	{name: "email", column: "email", kind: kindText},
	{name: "gender", column: "gender_id", kind: kindGender},
	{name: "contact", column: "contact", kind: kindText},
	{name: "mother_name", column: "mother_name", kind: kindText},
}

var activityFields = []updateField{
	{name: "activity1", column: "activity1", kind: kindFlag},
	{name: "activity2", column: "activity2", kind: kindFlag},
	{name: "transport", column: "transport", kind: kindFlag},
}

// pendingAssignment is a checked value that may still need a lookup.
type pendingAssignment struct {
	field updateField
	value any
}

// booleanLiterals are the string spellings PostgreSQL accepts for a boolean.
var booleanLiterals = map[string]bool{
	"t": true, "true": true, "y": true, "yes": true, "on": true, "1": true,
	"f": false, "false": false, "n": false, "no": false, "off": false, "0": false,
}

// planUpdate picks the whitelisted keys out of body in whitelist order and
// normalizes their values the way the column would coerce them. Unknown
// keys are ignored.
func planUpdate(fields []updateField, body map[string]any) ([]pendingAssignment, error) {
	var plan []pendingAssignment

	for _, f := range fields {
		raw, ok := body[f.name]
		if !ok {
			continue
		}

		value, err := normalize(f, raw)
		if err != nil {
			return nil, err
		}
		plan = append(plan, pendingAssignment{field: f, value: value})
	}

	if len(plan) == 0 {
		return nil, errs.NewBadRequestError("No valid fields to update", true, nil, nil)
	}
	return plan, nil
}

// normalize maps one JSON value onto what gets bound for the column. nil
// means NULL.
func normalize(f updateField, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch f.kind {
	case kindText:
		switch v := raw.(type) {
		case string:
			if v == "" {
				return nil, nil
			}
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(v), nil
		}
		return nil, invalidFieldError(f.name, "must be a string or null")

	case kindGender:
		v, ok := raw.(string)
		if !ok {
			return nil, invalidFieldError(f.name, "must be a gender name or null")
		}
		if v == "" {
			return nil, nil
		}
		return v, nil

	case kindFlag:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			if b, ok := booleanLiterals[strings.ToLower(strings.TrimSpace(v))]; ok {
				return b, nil
			}
		}
		return nil, invalidFieldError(f.name, "must be a boolean or null")
	}

	return nil, invalidFieldError(f.name, "is not updatable")
}

func invalidFieldError(field, problem string) error {
	return errs.NewBadRequestError(
		fmt.Sprintf("Invalid value for field: %s", field),
		true,
		nil,
		[]errs.FieldError{{Field: field, Error: problem}},
	)
}

// resolve turns a plan into column assignments, looking gender names up on q.
func resolve(ctx context.Context, q database.Querier, genders genderStore, plan []pendingAssignment) ([]repository.Assignment, error) {
	assignments := make([]repository.Assignment, 0, len(plan))

	for _, p := range plan {
		value := p.value
		if p.field.kind == kindGender && value != nil {
			id, err := genders.IDByName(ctx, q, value.(string))
			if err != nil {
				return nil, err
			}
			value = nil
			if id != nil {
				value = *id
			}
		}
		assignments = append(assignments, repository.Assignment{Column: p.field.column, Value: value})
	}

	return assignments, nil
}
