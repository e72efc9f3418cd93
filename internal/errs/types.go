package errs

import (
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors (validation errors)
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Detail:   message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// Supports optional custom code override similar to NewBadRequestError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Detail:   message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewDataAccessError creates a 500 HTTPError for a failed database operation.
//
// message is the contextual text ("Failed to retrieve people from database").
// The text of the driver error beneath the application's pkg/errors
// wrapping is exposed under "error". err is kept as the cause so
// errors.Is/As still see the driver error.
func NewDataAccessError(message string, err error, code *string, errors []FieldError) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError))
	if code != nil {
		formattedCode = *code
	}

	detail := message
	if err != nil {
		detail = pkgerrors.Cause(err).Error()
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Detail:  detail,
		Status:  http.StatusInternalServerError,
		Errors:  errors,
		cause:   err,
	}
}

// NewInternalServerError creates a generic 500 Internal Server Error HTTPError.
//
// Used where no cause is available (panics recovered upstream, unknown error types).
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Detail:   http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}
