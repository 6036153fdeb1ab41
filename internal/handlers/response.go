package handlers

import (
	"errors"
	"log"
	"net/http"
	"storefront/internal/apperr"
	"storefront/internal/repository"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageResponse wraps paginated list results.
type PageResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindInvalidState:
		return http.StatusConflict
	case apperr.KindInsufficientStock:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ..., "code": ..., "details": ...}.
// Storage failures are logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperr.KindStorage {
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
			"code":  apperr.KindStorage.String(),
		})
		return
	}

	body := gin.H{"error": appErr.Message, "code": appErr.Kind.String()}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	c.JSON(statusFor(appErr.Kind), body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": apperr.KindValidation.String()})
}

// bindJSON binds the request body and reports malformed input itself.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "Invalid request format")
		return false
	}
	return true
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

func parsePage(c *gin.Context) repository.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return repository.Page{Page: page, Limit: limit}.Normalize()
}

// parseBool reads an optional boolean query parameter.
func parseBool(c *gin.Context, key string) (*bool, bool) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		badRequest(c, "Invalid "+key)
		return nil, false
	}
	return &v, true
}

func respondPage(c *gin.Context, data interface{}, total int64, page repository.Page) {
	c.JSON(http.StatusOK, PageResponse{Data: data, Total: total, Page: page.Page, Limit: page.Limit})
}
