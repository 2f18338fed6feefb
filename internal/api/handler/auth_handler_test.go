package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ventaboard/sales-api/internal/api/middleware"
	"github.com/ventaboard/sales-api/internal/core/domain"
	"github.com/ventaboard/sales-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn         func(ctx context.Context, username, password string) (string, *domain.User, error)
	registerFn      func(ctx context.Context, username, password, role string) (*domain.User, error)
	updateProfileFn func(ctx context.Context, in ports.ProfileUpdateInput) (*ports.ProfileUpdateResult, error)
	listUsersFn     func(ctx context.Context) ([]*domain.User, error)
	deleteUserFn    func(ctx context.Context, id string) error
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, role)
}

func (s *stubAuthService) ValidateToken(string) (string, error) { return "", domain.ErrTokenInvalid }

func (s *stubAuthService) ResolveRole(context.Context, string) string { return domain.RoleUser }

func (s *stubAuthService) UpdateProfile(ctx context.Context, in ports.ProfileUpdateInput) (*ports.ProfileUpdateResult, error) {
	return s.updateProfileFn(ctx, in)
}

func (s *stubAuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listUsersFn(ctx)
}

func (s *stubAuthService) DeleteUser(ctx context.Context, id string) error {
	return s.deleteUserFn(ctx, id)
}

func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
			if username != "admin" || password != "password123" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", &domain.User{Username: "admin", Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"username":"admin","password":"password123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "token123" || resp["token_type"] != "bearer" || resp["role"] != "admin" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"username":"admin","password":"nope"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatalf("service must not be called")
			return "", nil, nil
		},
	})

	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"username":"admin"}`)
	err := h.Login(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_UpdateProfile_ReturnsFreshToken(t *testing.T) {
	stub := &stubAuthService{
		updateProfileFn: func(_ context.Context, in ports.ProfileUpdateInput) (*ports.ProfileUpdateResult, error) {
			if in.Username != "alice" || in.NewUsername != "alicia" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.ProfileUpdateResult{Token: "fresh"}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPut, "/auth/profile",
		`{"current_password":"pass","new_username":"alicia"}`)
	c.Set(middleware.ContextUsername, "alice")

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["access_token"] != "fresh" {
		t.Fatalf("expected fresh token in response, got %+v", resp)
	}
}

func TestAuthHandler_UpdateProfile_NoSubject(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(http.MethodPut, "/auth/profile", `{"current_password":"pass"}`)
	err := h.UpdateProfile(c)

	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth claims, got %v", err)
	}
}

func TestAuthHandler_ListUsers(t *testing.T) {
	stub := &stubAuthService{
		listUsersFn: func(context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: "1", Username: "admin", Role: domain.RoleAdmin},
				{ID: "2", Username: "alice", Role: domain.RoleUser},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/auth/users", "")
	if err := h.ListUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0]["username"] != "admin" || resp[1]["role"] != "user" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_CreateUser(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, username, password, role string) (*domain.User, error) {
			if username != "bob" || role != "" {
				t.Fatalf("unexpected args: %s %s", username, role)
			}
			return &domain.User{Username: username, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/auth/users", `{"username":"bob","password":"pass"}`)
	if err := h.CreateUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_CreateUser_Duplicate(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/auth/users", `{"username":"bob","password":"pass"}`)
	if err := h.CreateUser(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists to propagate, got %v", err)
	}
}

func TestAuthHandler_DeleteUser_Protected(t *testing.T) {
	stub := &stubAuthService{
		deleteUserFn: func(_ context.Context, id string) error {
			if id != "1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return domain.ErrProtectedAccount
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodDelete, "/auth/users/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.DeleteUser(c); !errors.Is(err, domain.ErrProtectedAccount) {
		t.Fatalf("expected ErrProtectedAccount, got %v", err)
	}
}
