package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/people-api/internal/errs"
)

// IntParam only lets the request through when the named path parameter is
// a non-negative base-10 integer that fits in an int64. Anything else is
// treated as a route that does not exist.
func IntParam(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Param(name)
			if !isDigits(raw) {
				return errs.NewNotFoundError("Route not found", false, nil)
			}
			if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
				return errs.NewNotFoundError("Route not found", false, nil)
			}
			return next(c)
		}
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
