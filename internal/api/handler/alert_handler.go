package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ventaboard/sales-api/internal/core/ports"
)

type alertRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
	Subject   string `json:"subject" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

// AlertHandler forwards dashboard alerts to the configured mailer.
type AlertHandler struct {
	mailer ports.Mailer
}

func NewAlertHandler(mailer ports.Mailer) *AlertHandler {
	return &AlertHandler{mailer: mailer}
}

// Send delivers one alert mail.
//
// @Summary      Send an alert email
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        body  body      alertRequest  true  "Alert content"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /alerts/send [post]
func (h *AlertHandler) Send(c echo.Context) error {
	var req alertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.mailer.Send(c.Request().Context(), req.Recipient, req.Subject, req.Message); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "alert sent"})
}
