package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ventaboard/sales-api/internal/api/middleware"
)

// ctxUsername extracts the authenticated subject injected by the Auth
// middleware. A missing subject means the middleware did not run on this
// route; fail closed with 401.
func ctxUsername(c echo.Context) (string, error) {
	username, _ := c.Get(middleware.ContextUsername).(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, nil
}

// ctxOptionalUsername returns the subject when OptionalAuth resolved one, or
// an empty string for anonymous callers.
func ctxOptionalUsername(c echo.Context) string {
	username, _ := c.Get(middleware.ContextUsername).(string)
	return username
}
