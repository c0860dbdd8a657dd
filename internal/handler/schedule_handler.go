package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
	"github.com/storeops/opsdash-api/pkg/response"
)

type scheduleService interface {
	Clock() query.Clock
	List(ctx context.Context, kind models.ScheduleKind, criteria query.Criteria, page, pageSize int) ([]models.Schedule, *models.Pagination, error)
	Get(ctx context.Context, kind models.ScheduleKind, id int64) (*models.Schedule, error)
	Stats(ctx context.Context, kind models.ScheduleKind) (models.ScheduleStats, bool)
}

// ScheduleHandler serves the read-only schedule reviews for one kind.
type ScheduleHandler struct {
	kind    models.ScheduleKind
	service scheduleService
}

// NewScheduleHandler constructs the handler for kind.
func NewScheduleHandler(kind models.ScheduleKind, service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{kind: kind, service: service}
}

// List godoc
// @Summary List schedules with their employee rows
// @Tags Schedules
// @Produce json
// @Param store query string false "Store name"
// @Param status query string false "Draft|Submitted"
// @Param week query string false "Week start (YYYY-MM-DD); schedules active that week"
// @Param period query string false "Period applied to the schedule start date"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Router /security-schedules [get]
// @Router /thirdparty-schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
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
	items, pagination, err := h.service.List(c.Request.Context(), h.kind, criteria, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, items, pagination, false)
}

// Get godoc
// @Summary Get one schedule
// @Tags Schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /security-schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), h.kind, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Stats godoc
// @Summary Schedule headline counters
// @Tags Schedules
// @Produce json
// @Success 200 {object} models.ScheduleStats
// @Router /security-schedules/stats [get]
func (h *ScheduleHandler) Stats(c *gin.Context) {
	stats, _ := h.service.Stats(c.Request.Context(), h.kind)
	response.Raw(c, http.StatusOK, stats)
}
