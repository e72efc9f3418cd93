// Package sqlerr specifically handles database driver errors.
//
// It parses SQLSTATE codes reported by PostgreSQL (through pgx) and
// classifies them so the HTTP layer can render a consistent 500 body with
// a stable machine code (e.g. PERSON_ALREADY_EXISTS) next to the raw
// driver message.
package sqlerr

import "strings"

// Code is a coarse classification of a PostgreSQL SQLSTATE.
type Code string

const (
	Other                     Code = "other"
	NotNullViolation          Code = "not_null_violation"
	ForeignKeyViolation       Code = "foreign_key_violation"
	UniqueViolation           Code = "unique_violation"
	CheckViolation            Code = "check_violation"
	ExclusionViolation        Code = "exclusion_violation"
	InvalidTextRepresentation Code = "invalid_text_representation"
	UndefinedTable            Code = "undefined_table"
	UndefinedColumn           Code = "undefined_column"
	ConnectionException       Code = "connection_exception"
)

// Severity mirrors the severity field of a PostgreSQL error report.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is the normalized form of a PostgreSQL error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return string(e.Severity) + ": " + e.Message + " (SQLSTATE " + e.DatabaseCode + ")"
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a SQLSTATE to a Code. Connection failures are matched by class (08xxx).
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "22P02":
		return InvalidTextRepresentation
	case "42P01":
		return UndefinedTable
	case "42703":
		return UndefinedColumn
	}

	if strings.HasPrefix(sqlState, "08") {
		return ConnectionException
	}

	return Other
}

// MapSeverity normalizes the severity reported by the server.
func MapSeverity(severity string) Severity {
	switch s := Severity(strings.ToUpper(severity)); s {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}
