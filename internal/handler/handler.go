// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the
// validation package, and calls the appropriate service layer.
// Failures are converted into errs.HTTPError values carrying a
// contextual message; the global error handler writes them.
package handler
