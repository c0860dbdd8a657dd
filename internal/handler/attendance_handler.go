package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storeops/opsdash-api/internal/dto"
	"github.com/storeops/opsdash-api/internal/middleware"
	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
	appErrors "github.com/storeops/opsdash-api/pkg/errors"
	"github.com/storeops/opsdash-api/pkg/export"
	"github.com/storeops/opsdash-api/pkg/response"
)

type attendanceService interface {
	Clock() query.Clock
	Dashboard(ctx context.Context, criteria query.Criteria, groupBy models.AttendanceGroupBy) (*models.AttendanceDashboard, error)
	Stats(ctx context.Context) (models.AttendanceStats, bool)
	FilterOptions(ctx context.Context) (*models.AttendanceFilterOptions, bool, error)
}

type attendanceExporter interface {
	Render(ctx context.Context, criteria query.Criteria, format export.Format) ([]byte, string, error)
	Store(ctx context.Context, criteria query.Criteria, format export.Format) (*models.ExportResult, error)
	Resolve(token string) (string, error)
	Open(relPath string) (*os.File, error)
}

// AttendanceHandler serves the attendance dashboard routes.
type AttendanceHandler struct {
	service  attendanceService
	exporter attendanceExporter
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service attendanceService, exporter attendanceExporter) *AttendanceHandler {
	return &AttendanceHandler{service: service, exporter: exporter}
}

// Dashboard godoc
// @Summary Attendance summary, pivot groups and raw rows
// @Tags Attendance
// @Produce json
// @Param store query string false "Store name"
// @Param company query string false "Company"
// @Param workerType query string false "Worker type"
// @Param name query string false "Employee name (substring)"
// @Param period query string false "all|today|this-week|this-month|last-month|custom"
// @Param fromDate query string false "YYYY-MM-DD"
// @Param toDate query string false "YYYY-MM-DD (inclusive)"
// @Param groupBy query string false "store|company|workerType|date|name"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) Dashboard(c *gin.Context) {
	criteria, err := query.ParseCriteria(c.Request.URL.Query(), h.service.Clock())
	if err != nil {
		response.Error(c, err)
		return
	}
	q, err := parseListQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	dashboard, err := h.service.Dashboard(c.Request.Context(), criteria, models.AttendanceGroupBy(q.GroupBy))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "truncated", dashboard.Truncated)
	respondWithMeta(c, dashboard, nil, false)
}

// Stats godoc
// @Summary Attendance headline counters
// @Tags Attendance
// @Produce json
// @Success 200 {object} models.AttendanceStats
// @Router /attendance/stats [get]
func (h *AttendanceHandler) Stats(c *gin.Context) {
	stats, _ := h.service.Stats(c.Request.Context())
	response.Raw(c, http.StatusOK, stats)
}

// Filters godoc
// @Summary Distinct values for the attendance dropdowns
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/filters [get]
func (h *AttendanceHandler) Filters(c *gin.Context) {
	opts, hit, err := h.service.FilterOptions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, opts, nil, hit)
}

// Export godoc
// @Summary Download the filtered attendance set
// @Tags Attendance
// @Produce octet-stream
// @Param format query string false "csv|pdf|xlsx"
// @Success 200 {file} file
// @Router /attendance/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	criteria, format, ok := h.exportInput(c)
	if !ok {
		return
	}
	payload, filename, err := h.exporter.Render(c.Request.Context(), criteria, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), payload)
}

// CreateExport godoc
// @Summary Store an attendance export and return a signed download link
// @Tags Attendance
// @Accept json
// @Produce json
// @Param format query string false "csv|pdf|xlsx"
// @Success 201 {object} response.Envelope
// @Router /attendance/exports [post]
func (h *AttendanceHandler) CreateExport(c *gin.Context) {
	criteria, format, ok := h.exportInput(c)
	if !ok {
		return
	}
	result, err := h.exporter.Store(c.Request.Context(), criteria, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, result, nil)
}

// Download godoc
// @Summary Fetch a stored export through its signed token
// @Tags Attendance
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Router /attendance/exports/{token} [get]
func (h *AttendanceHandler) Download(c *gin.Context) {
	relPath, err := h.exporter.Resolve(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exporter.Open(relPath)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}
	name := filepath.Base(relPath)
	format := export.Format(strings.TrimPrefix(filepath.Ext(name), "."))
	c.DataFromReader(http.StatusOK, info.Size(), format.ContentType(), file, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
	})
}

func (h *AttendanceHandler) exportInput(c *gin.Context) (query.Criteria, export.Format, bool) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrInternal)
		return query.Criteria{}, "", false
	}
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export parameters"))
		return query.Criteria{}, "", false
	}
	if err := validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv, pdf or xlsx"))
		return query.Criteria{}, "", false
	}
	format := export.Format(req.Format)
	if format == "" {
		format = export.FormatCSV
	}
	criteria, err := query.ParseCriteria(c.Request.URL.Query(), h.service.Clock())
	if err != nil {
		response.Error(c, err)
		return query.Criteria{}, "", false
	}
	return criteria, format, true
}
