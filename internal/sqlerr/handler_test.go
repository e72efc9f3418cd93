package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/people-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	orig := errs.NewNotFoundError("Person with ID 9 not found", true, nil)

	got := HandleError(orig, "Failed to retrieve person 9 from database")
	if got != error(orig) {
		t.Fatalf("expected the same error back, got %v", got)
	}
}

func TestHandleError_NoRowsIsNotFound(t *testing.T) {
	got := HandleError(fmt.Errorf("get person: %w", pgx.ErrNoRows), "ignored")

	var httpErr *errs.HTTPError
	if !errors.As(got, &httpErr) || httpErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404, got %#v", got)
	}
}

func TestHandleError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "people_email_key"`,
		TableName:      "people",
		ConstraintName: "people_email_key",
	}

	got := HandleError(fmt.Errorf("insert person: %w", pgErr), "Failed to add person")

	var httpErr *errs.HTTPError
	if !errors.As(got, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T", got)
	}
	if httpErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", httpErr.Status)
	}
	if httpErr.Code != "PERSON_ALREADY_EXISTS" {
		t.Fatalf("unexpected code %q", httpErr.Code)
	}
	if httpErr.Message != "Failed to add person" {
		t.Fatalf("unexpected message %q", httpErr.Message)
	}
	if len(httpErr.Errors) != 1 || httpErr.Errors[0].Field != "email" {
		t.Fatalf("unexpected field errors %+v", httpErr.Errors)
	}
	if httpErr.Errors[0].Error != "A Person with this Email already exists" {
		t.Fatalf("unexpected field message %q", httpErr.Errors[0].Error)
	}
	if !errors.Is(got, pgErr) {
		t.Fatalf("expected the driver error to stay reachable")
	}
}

func TestHandleError_OtherPgError(t *testing.T) {
	pgErr := &pgconn.PgError{Severity: "ERROR", Code: "42P01", Message: `relation "activity1" does not exist`}

	got := HandleError(pgErr, "Failed to retrieve activity1 people from database")

	var httpErr *errs.HTTPError
	if !errors.As(got, &httpErr) || httpErr.Code != "INTERNAL_SERVER_ERROR" {
		t.Fatalf("unexpected error %#v", got)
	}
	if httpErr.Detail != pgErr.Error() {
		t.Fatalf("expected raw driver text, got %q", httpErr.Detail)
	}
}

func TestHandleError_PlainError(t *testing.T) {
	got := HandleError(errors.New("dial tcp: connection refused"), "Failed to retrieve genders from database")

	var httpErr *errs.HTTPError
	if !errors.As(got, &httpErr) {
		t.Fatalf("expected *HTTPError")
	}
	if httpErr.Status != http.StatusInternalServerError || httpErr.Detail != "dial tcp: connection refused" {
		t.Fatalf("unexpected error %+v", httpErr)
	}
}

func TestHandleError_Nil(t *testing.T) {
	if HandleError(nil, "x") != nil {
		t.Fatalf("expected nil")
	}
}

func TestMapCode(t *testing.T) {
	cases := map[string]Code{
		"23502": NotNullViolation,
		"23503": ForeignKeyViolation,
		"23505": UniqueViolation,
		"08006": ConnectionException,
		"XX000": Other,
	}
	for state, want := range cases {
		if got := MapCode(state); got != want {
			t.Errorf("MapCode(%q) = %q, want %q", state, got, want)
		}
	}
}

func TestGenerateErrorCode(t *testing.T) {
	if got := generateErrorCode("activities", ForeignKeyViolation); got != "ACTIVITY_NOT_FOUND" {
		t.Fatalf("got %q", got)
	}
	if got := generateErrorCode("", NotNullViolation); got != "RECORD_REQUIRED" {
		t.Fatalf("got %q", got)
	}
}

func TestErrCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23503"})
	if ErrCode(err) != ForeignKeyViolation {
		t.Fatalf("expected foreign key violation")
	}
	if ErrCode(errors.New("x")) != Other {
		t.Fatalf("expected other")
	}
}
