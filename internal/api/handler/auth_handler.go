package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ventaboard/sales-api/internal/api/metrics"
	"github.com/ventaboard/sales-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        user.Role,
	})
}

// UpdateProfile renames the caller and/or changes their password.
//
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileUpdateRequest  true  "Profile changes"
// @Success      200   {object}  profileUpdateResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.UpdateProfile(c.Request().Context(), ports.ProfileUpdateInput{
		Username:        username,
		CurrentPassword: req.CurrentPassword,
		NewUsername:     req.NewUsername,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileUpdateResponse{
		Message:     "profile updated",
		AccessToken: result.Token,
	})
}

// ListUsers returns all accounts. Any valid token suffices.
//
// @Summary      List users
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, userResponse{ID: u.ID, Username: u.Username, Role: u.Role})
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateUser registers a new account.
//
// @Summary      Create a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New account"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/users [post]
func (h *AuthHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "user created"})
}

// DeleteUser removes an account; the bootstrap admin is protected.
//
// @Summary      Delete a user
// @Tags         auth
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/users/{id} [delete]
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	if err := h.authService.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted"})
}
