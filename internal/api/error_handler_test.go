package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ventaboard/sales-api/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantDetail string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrTokenExpired, http.StatusUnauthorized, "token expired"},
		{domain.ErrTokenInvalid, http.StatusUnauthorized, "invalid token"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{domain.ErrUserExists, http.StatusBadRequest, "user already exists"},
		{domain.ErrUsernameTaken, http.StatusBadRequest, "username already in use"},
		{domain.ErrProtectedAccount, http.StatusBadRequest, "the bootstrap admin cannot be deleted"},
		{domain.ErrUnsupportedFormat, http.StatusBadRequest, "unsupported file format"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tc.err, c)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["detail"] != tc.wantDetail {
				t.Fatalf("expected detail %q, got %q", tc.wantDetail, resp["detail"])
			}
		})
	}
}

func TestHTTPErrorHandler_WrappedErrorsStillMap(t *testing.T) {
	handler := NewHTTPErrorHandler(zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/files/upload", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(fmt.Errorf("%w: .pdf", domain.ErrUnsupportedFormat), c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrapped ErrUnsupportedFormat, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	handler := NewHTTPErrorHandler(zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(errors.New("mongo exploded: secret dsn"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["detail"] != "internal server error" {
		t.Fatalf("internal details must not leak, got %q", resp["detail"])
	}
}
