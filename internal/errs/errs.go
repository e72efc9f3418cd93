// Package errs defines the error taxonomy the API speaks.
//
// Every failure a handler can produce ends up as an *HTTPError so the client
// always receives the same JSON shape:
//
//	{"code":"NOT_FOUND","message":"Person with ID 7 not found","error":"Person with ID 7 not found","status":404,"override":true}
//
// Responsibilities:
//   - 400 for structurally invalid input (missing required field, no updatable fields).
//   - 404 for unknown identifiers and unknown routes.
//   - 500 for every database, connection or mapping failure, carrying the raw cause text.
package errs
