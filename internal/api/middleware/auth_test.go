package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ventaboard/sales-api/internal/core/domain"
)

type stubValidator struct {
	subject string
	err     error
}

func (s *stubValidator) ValidateToken(string) (string, error) {
	return s.subject, s.err
}

func newAuthContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuth_ValidToken(t *testing.T) {
	c, _ := newAuthContext("Bearer sometoken")

	called := false
	mw := Auth(&stubValidator{subject: "alice"})
	err := mw(func(c echo.Context) error {
		called = true
		if c.Get(ContextUsername) != "alice" {
			t.Fatalf("username not injected")
		}
		return nil
	})(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	c, _ := newAuthContext("")

	mw := Auth(&stubValidator{subject: "alice"})
	err := mw(func(c echo.Context) error { return nil })(c)

	var he *echo.HTTPError
	if !asHTTPError(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_ExpiredVersusInvalid(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"expired", domain.ErrTokenExpired, "token expired"},
		{"invalid", domain.ErrTokenInvalid, "invalid token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newAuthContext("Bearer tok")

			mw := Auth(&stubValidator{err: tc.err})
			err := mw(func(c echo.Context) error { return nil })(c)

			var he *echo.HTTPError
			if !asHTTPError(err, &he) || he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
			if he.Message != tc.wantMsg {
				t.Fatalf("expected message %q, got %v", tc.wantMsg, he.Message)
			}
		})
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	c, _ := newAuthContext("Token abc")

	mw := Auth(&stubValidator{subject: "alice"})
	err := mw(func(c echo.Context) error { return nil })(c)

	var he *echo.HTTPError
	if !asHTTPError(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-bearer scheme, got %v", err)
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	c, _ := newAuthContext("")

	called := false
	mw := OptionalAuth(&stubValidator{subject: "alice"})
	err := mw(func(c echo.Context) error {
		called = true
		if c.Get(ContextUsername) != nil {
			t.Fatalf("anonymous request must not carry a subject")
		}
		return nil
	})(c)

	if err != nil || !called {
		t.Fatalf("anonymous request must pass through: err=%v called=%v", err, called)
	}
}

func TestOptionalAuth_InvalidTokenTreatedAsAnonymous(t *testing.T) {
	c, _ := newAuthContext("Bearer bad")

	called := false
	mw := OptionalAuth(&stubValidator{err: domain.ErrTokenInvalid})
	err := mw(func(c echo.Context) error {
		called = true
		if c.Get(ContextUsername) != nil {
			t.Fatalf("invalid token must not inject a subject")
		}
		return nil
	})(c)

	if err != nil || !called {
		t.Fatalf("invalid optional token must pass through: err=%v called=%v", err, called)
	}
}

func TestOptionalAuth_ValidTokenInjectsSubject(t *testing.T) {
	c, _ := newAuthContext("Bearer good")

	mw := OptionalAuth(&stubValidator{subject: "bob"})
	err := mw(func(c echo.Context) error {
		if c.Get(ContextUsername) != "bob" {
			t.Fatalf("subject not injected")
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func asHTTPError(err error, target **echo.HTTPError) bool {
	he, ok := err.(*echo.HTTPError)
	if ok {
		*target = he
	}
	return ok
}
