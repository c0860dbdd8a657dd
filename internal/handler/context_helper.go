package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/storeops/opsdash-api/internal/dto"
	"github.com/storeops/opsdash-api/internal/middleware"
	"github.com/storeops/opsdash-api/internal/models"
	appErrors "github.com/storeops/opsdash-api/pkg/errors"
	"github.com/storeops/opsdash-api/pkg/response"
)

var validate = validator.New()

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func parseListQuery(c *gin.Context) (dto.ListQuery, error) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return q, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid list parameters")
	}
	if err := validate.Struct(q); err != nil {
		return q, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid list parameters")
	}
	q.GroupBy = strings.TrimSpace(q.GroupBy)
	return q, nil
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid id"))
		return 0, false
	}
	return id, true
}

func respondWithMeta(c *gin.Context, data interface{}, pagination *models.Pagination, cacheHit bool) {
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, data, pagination, middleware.ExtractMeta(c))
}
