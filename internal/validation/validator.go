// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields) defined in struct tags and extracts
// validation errors into a format the client can understand.
// Field names in errors are the JSON keys, not the Go names.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/errs"
)

// Validatable is implemented by request payload types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names ("first_name") instead of Go field names ("FirstName").
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	return v
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// BindAndValidate binds request data into payload and validates it.
//
// Binding failures (malformed JSON, wrong content type, wrong value types)
// and validation failures both come back as a 400 *errs.HTTPError.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil)
	}

	if err := payload.Validate(); err != nil {
		msg, fieldErrors := extractValidationError(err)
		return errs.NewBadRequestError(msg, true, nil, fieldErrors)
	}

	return nil
}

func bindErrorMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

// extractValidationError converts validator errors into field errors. The
// message names the first missing field when there is one.
func extractValidationError(err error) (string, []errs.FieldError) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), nil
	}

	var fieldErrors []errs.FieldError
	message := "Validation failed"
	missing := ""

	for _, fe := range validationErrors {
		field := fe.Field()

		msg := "is required"
		if fe.Tag() != "required" {
			msg = fe.Tag()
			if fe.Param() != "" {
				msg += ":" + fe.Param()
			}
		} else if missing == "" {
			missing = field
		}

		fieldErrors = append(fieldErrors, errs.FieldError{Field: field, Error: msg})
	}

	if missing != "" {
		message = "Missing required field: " + missing
	}
	return message, fieldErrors
}
