// Package resolution exposes the identity resolution API endpoints.
package resolution

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	appcontext "github.com/Ramsey-B/aster/pkg/context"
	"github.com/Ramsey-B/aster/pkg/linker"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/processor"
)

// Handler handles resolution API endpoints
type Handler struct {
	processor *processor.Processor
	logger    ectologger.Logger
}

// NewHandler creates a new resolution handler
func NewHandler(proc *processor.Processor, logger ectologger.Logger) *Handler {
	return &Handler{
		processor: proc,
		logger:    logger,
	}
}

// Register registers the resolution routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("/resolve", h.Resolve)
	g.POST("/normalize", h.Normalize)
}

// Resolve runs one resolution request synchronously
// @Summary Resolve identities
// @Description Resolve records from one or more sources into identities
// @Tags Resolution
// @Accept json
// @Produce json
// @Param body body models.ResolutionRequest true "Resolution request"
// @Success 200 {object} models.ResolutionResult
// @Failure 400 {object} httperror.HTTPError
// @Failure 500 {object} httperror.HTTPError
// @Router /api/v1/resolve [post]
func (h *Handler) Resolve(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ResolutionRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.TenantID == "" {
		req.TenantID = appcontext.GetTenantID(ctx)
	}

	result, err := h.processor.Run(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// NormalizeRequest is the request body for previewing normalization
type NormalizeRequest struct {
	Source   string             `json:"source" validate:"required"`
	IDColumn string             `json:"id_column,omitempty"`
	Records  []models.RawRecord `json:"records" validate:"required"`
}

// NormalizeResponse contains the normalized working rows
type NormalizeResponse struct {
	Records      []models.SourceRecord `json:"records"`
	RecordCount  int                   `json:"record_count"`
	SkippedCount int                   `json:"skipped_count"`
}

// Normalize previews field normalization without resolving
// @Summary Normalize records
// @Description Normalize a batch of records the way the resolver would, without clustering them
// @Tags Resolution
// @Accept json
// @Produce json
// @Param body body NormalizeRequest true "Normalize request"
// @Success 200 {object} NormalizeResponse
// @Failure 400 {object} httperror.HTTPError
// @Router /api/v1/normalize [post]
func (h *Handler) Normalize(c echo.Context) error {
	ctx := c.Request().Context()

	var req NormalizeRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Source == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "source is required")
	}
	if len(req.Records) == 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "records are required")
	}

	l := linker.New(h.logger)
	opts := []linker.AddOption{}
	if req.IDColumn != "" {
		opts = append(opts, linker.WithIDColumn(req.IDColumn))
	}
	l.AddRecords(ctx, req.Records, req.Source, opts...)

	return c.JSON(http.StatusOK, NormalizeResponse{
		Records:      l.Records(),
		RecordCount:  l.Len(),
		SkippedCount: l.Skipped(),
	})
}
