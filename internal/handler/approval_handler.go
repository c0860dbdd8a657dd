package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeops/opsdash-api/internal/dto"
	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
	"github.com/storeops/opsdash-api/internal/service"
	appErrors "github.com/storeops/opsdash-api/pkg/errors"
	"github.com/storeops/opsdash-api/pkg/response"
)

type approvalService interface {
	Clock() query.Clock
	List(ctx context.Context, kind models.ApprovalKind, criteria query.Criteria, page, pageSize int) ([]models.ApprovalRequest, *models.Pagination, error)
	Get(ctx context.Context, kind models.ApprovalKind, id int64) (*models.ApprovalRequest, error)
	CountBy(ctx context.Context, kind models.ApprovalKind, field query.Field, criteria query.Criteria) ([]models.GroupCount, error)
	Stats(ctx context.Context, kind models.ApprovalKind) (models.ApprovalStats, bool)
	UpdateStatus(ctx context.Context, kind models.ApprovalKind, id int64, status string, notes *string, actor string) (*service.Transition, error)
}

// ApprovalHandler serves one approval request type. Cleaning requests,
// production extras and theft incidents each get their own instance.
type ApprovalHandler struct {
	kind    models.ApprovalKind
	service approvalService
}

// NewApprovalHandler constructs the handler for kind.
func NewApprovalHandler(kind models.ApprovalKind, service approvalService) *ApprovalHandler {
	return &ApprovalHandler{kind: kind, service: service}
}

// List godoc
// @Summary List approval requests, or counts per key when groupBy=status|store
// @Tags Approvals
// @Produce json
// @Param store query string false "Store name"
// @Param status query string false "Overall status"
// @Param category query string false "Request category"
// @Param period query string false "all|today|this-week|this-month|last-month|custom"
// @Param groupBy query string false "status|store"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Router /cleaning-requests [get]
// @Router /production-extras [get]
// @Router /theft-incidents [get]
func (h *ApprovalHandler) List(c *gin.Context) {
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
	if q.GroupBy != "" {
		counts, err := h.service.CountBy(c.Request.Context(), h.kind, query.Field(q.GroupBy), criteria)
		if err != nil {
			response.Error(c, err)
			return
		}
		respondWithMeta(c, dto.GroupedCounts{GroupBy: q.GroupBy, Groups: counts}, nil, false)
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
// @Summary Get one approval request
// @Tags Approvals
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /cleaning-requests/{id} [get]
func (h *ApprovalHandler) Get(c *gin.Context) {
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
// @Summary Approval headline counters
// @Tags Approvals
// @Produce json
// @Success 200 {object} models.ApprovalStats
// @Router /cleaning-requests/stats [get]
func (h *ApprovalHandler) Stats(c *gin.Context) {
	stats, _ := h.service.Stats(c.Request.Context(), h.kind)
	response.Raw(c, http.StatusOK, stats)
}

// UpdateStatus godoc
// @Summary Apply a status decision to a request
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param payload body dto.StatusUpdateRequest true "Target status"
// @Success 200 {object} response.ActionResult
// @Failure 400 {object} response.ActionResult
// @Failure 404 {object} response.ActionResult
// @Router /cleaning-requests/{id}/status [post]
func (h *ApprovalHandler) UpdateStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Action(c, appErrors.ErrUnauthorized)
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Action(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		response.Action(c, appErrors.Clone(appErrors.ErrValidation, "status is required"))
		return
	}
	if _, err := h.service.UpdateStatus(c.Request.Context(), h.kind, id, req.Status, req.ReviewNotes, claims.Actor()); err != nil {
		response.Action(c, err)
		return
	}
	response.Action(c, nil)
}
