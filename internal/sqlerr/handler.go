package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/people-api/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// irregular singular forms for the tables this service touches.
var singulars = map[string]string{
	"people":     "person",
	"activities": "activity",
}

var uniqueKeyPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// ErrCode reports the mapped sqlerr.Code for a given error.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}

	return Other
}

// ConvertPgError converts a pgconn.PgError into our custom sqlerr.Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

func singular(tableName string) string {
	name := strings.ToLower(tableName)
	if s, ok := singulars[name]; ok {
		return s
	}
	if strings.HasSuffix(name, "s") && len(name) > 1 {
		return name[:len(name)-1]
	}
	return name
}

// generateErrorCode creates "<DOMAIN>_<ACTION>" codes, e.g.
// people + UniqueViolation => PERSON_ALREADY_EXISTS.
func generateErrorCode(tableName string, errType Code) string {
	domain := "RECORD"
	if tableName != "" {
		domain = strings.ToUpper(singular(tableName))
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces a field-level message for constraint violations.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		identifier := "identifier"
		if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
			identifier = humanizeText(column)
		}
		return fmt.Sprintf("A %s with this %s already exists", entityName, identifier)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName infers an entity name from table/column data.
// A foreign key column like "gender_id" wins over the table name.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		return humanizeText(singular(tableName))
	}

	return "record"
}

// humanizeText converts snake_case into Title Case: "first_name" -> "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation infers the column from a constraint name.
//
// Supported conventions:
//
//	unique_<table>_<column>      unique_people_email -> "email"
//	<table>_<column>_(key|ukey)  people_email_key    -> "email"
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueKeyPattern.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a data-access failure into the error the client sees.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - ErrNoRows: 404
//   - *pgconn.PgError: 500 with a generated code, the raw driver text, and a
//     humanized field error for constraint violations
//   - anything else (dial errors, scan errors, cancelled contexts): 500 with the raw text
//
// message is the contextual text placed in the response "message".
func HandleError(err error, message string) error {
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		switch sqlErr.Code {
		case ForeignKeyViolation, UniqueViolation, NotNullViolation, CheckViolation:
			errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)

			field := sqlErr.ColumnName
			if sqlErr.Code == UniqueViolation {
				field = extractColumnForUniqueViolation(sqlErr.ConstraintName)
			}
			fieldErrors := []errs.FieldError{{
				Field: strings.ToLower(field),
				Error: formatUserFriendlyMessage(sqlErr),
			}}

			return errs.NewDataAccessError(message, err, &errorCode, fieldErrors)

		default:
			return errs.NewDataAccessError(message, err, nil, nil)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewDataAccessError(message, err, nil, nil)
}
