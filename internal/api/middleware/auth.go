package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ventaboard/sales-api/internal/core/domain"
)

// ContextUsername is the echo context key under which the authenticated
// subject is stored.
const ContextUsername = "username"

// TokenValidator validates a bearer token and returns its subject.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// Auth requires a valid bearer token and injects the subject into context.
// Expired and structurally invalid tokens produce distinct 401 messages; role
// is deliberately not read from the token (it is resolved against the
// credential store when a privileged action needs it).
func Auth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			username, err := validator.ValidateToken(token)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextUsername, username)
			return next(c)
		}
	}
}

// OptionalAuth resolves the subject when a valid bearer token is present and
// otherwise lets the request through anonymously. Used on routes where a
// token upgrades behaviour (upload visibility, data filtering) but is not
// required.
func OptionalAuth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				if username, err := validator.ValidateToken(token); err == nil {
					c.Set(ContextUsername, username)
				}
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
