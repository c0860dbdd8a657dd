package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storeops/opsdash-api/internal/models"
	"github.com/storeops/opsdash-api/internal/query"
	"github.com/storeops/opsdash-api/pkg/response"
)

type feedbackService interface {
	Clock() query.Clock
	List(ctx context.Context, criteria query.Criteria, page, pageSize int) ([]models.Feedback, *models.Pagination, error)
	Stats(ctx context.Context) (models.FeedbackStats, bool)
}

// FeedbackHandler serves store feedback.
type FeedbackHandler struct {
	service feedbackService
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(service feedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// List godoc
// @Summary List store feedback
// @Tags Feedback
// @Produce json
// @Param store query string false "Store name"
// @Param category query string false "Category"
// @Param period query string false "all|today|this-week|this-month|last-month|custom"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Router /feedback [get]
func (h *FeedbackHandler) List(c *gin.Context) {
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
	items, pagination, err := h.service.List(c.Request.Context(), criteria, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, items, pagination, false)
}

// Stats godoc
// @Summary Feedback headline counters
// @Tags Feedback
// @Produce json
// @Success 200 {object} models.FeedbackStats
// @Router /feedback/stats [get]
func (h *FeedbackHandler) Stats(c *gin.Context) {
	stats, _ := h.service.Stats(c.Request.Context())
	response.Raw(c, http.StatusOK, stats)
}
