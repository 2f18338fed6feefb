package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ventaboard/sales-api/internal/api/metrics"
	"github.com/ventaboard/sales-api/internal/core/domain"
	"github.com/ventaboard/sales-api/internal/core/ports"
)

// RoleResolver resolves a username's current role against the credential
// store. Roles are looked up live, never trusted from the token.
type RoleResolver interface {
	ResolveRole(ctx context.Context, username string) string
}

// FileHandler handles dataset upload and retrieval.
type FileHandler struct {
	ingest ports.IngestService
	roles  RoleResolver

	// visibilityFilter hides admin-tagged rows from non-admin readers of
	// GET /files/data. Deployment-level toggle.
	visibilityFilter bool
}

func NewFileHandler(ingest ports.IngestService, roles RoleResolver, visibilityFilter bool) *FileHandler {
	return &FileHandler{ingest: ingest, roles: roles, visibilityFilter: visibilityFilter}
}

// Upload ingests a tabular file, replacing the stored dataset.
//
// @Summary      Upload a sales spreadsheet
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV or XLSX file"
// @Success      200   {object}  uploadResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /files/upload [post]
func (h *FileHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field")
	}

	src, err := fileHeader.Open()
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer src.Close()

	ctx := c.Request().Context()
	username := ctxOptionalUsername(c)
	role := ""
	if username != "" {
		role = h.roles.ResolveRole(ctx, username)
	}

	result, err := h.ingest.Ingest(ctx, ports.IngestInput{
		Filename:   fileHeader.Filename,
		Reader:     src,
		CallerRole: role,
		CallerName: username,
	})
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(uploadFailureLabel(err)).Inc()
		return err
	}

	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	metrics.UploadRowsIngestedTotal.Add(float64(len(result.Data)))
	for _, skip := range result.Skipped {
		metrics.UploadRowsSkippedTotal.WithLabelValues(skip.Reason).Inc()
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Message:     fmt.Sprintf("data uploaded (visibility: %s)", result.Visibility),
		Data:        toSaleRows(result.Data),
		SkippedRows: result.Skipped,
	})
}

// Data returns the current dataset, filtered by caller privilege.
//
// @Summary      Get the current dataset
// @Tags         files
// @Produce      json
// @Success      200  {array}  saleRow
// @Router       /files/data [get]
func (h *FileHandler) Data(c echo.Context) error {
	ctx := c.Request().Context()

	includeAdmin := !h.visibilityFilter
	if !includeAdmin {
		if username := ctxOptionalUsername(c); username != "" {
			includeAdmin = h.roles.ResolveRole(ctx, username) == domain.RoleAdmin
		}
	}

	sales, err := h.ingest.Data(ctx, includeAdmin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSaleRows(sales))
}

func uploadFailureLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, domain.ErrParse):
		return "parse_error"
	}
	return "error"
}
