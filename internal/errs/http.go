package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "email", "error": "is required" }
type FieldError struct {
	// Field is the JSON key the error relates to (e.g. "email").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the custom error type every handler failure is converted to.
//
// It implements `error` and is serialized directly to JSON by the global
// error handler. Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST", "PEOPLE_ALREADY_EXISTS").
//   - Message: human-friendly, contextual message.
//   - Detail: the raw error text, rendered under the "error" key.
//   - Status: HTTP status code.
//   - Override: the message is safe to show to end users as-is.
//   - Errors: per-field errors (validation, constraint violations).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Detail   string `json:"error"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	// Errors holds field-level errors, typically for request payloads.
	Errors []FieldError `json:"errors,omitempty"`

	// cause is the underlying error, kept for logging and errors.Is/As.
	cause error
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause (nil for errors built from a message only).
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is reports whether target is also an *HTTPError.
//
// It does NOT compare Code/Status; it only answers "is this one of ours".
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
