package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

// fail hands err to middleware.ErrorHandler for rendering
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		fail(c, service.ValidationError("invalid id", map[string]string{"id": "must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}

// pagination reads page (1-based) and limit query parameters
func pagination(c *gin.Context) (limit, offset int, ok bool) {
	limit = defaultPageSize
	page := 1

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fail(c, service.ValidationError("invalid pagination", map[string]string{"limit": "must be a positive integer"}))
			return 0, 0, false
		}
		limit = min(n, maxPageSize)
	}
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fail(c, service.ValidationError("invalid pagination", map[string]string{"page": "must be a positive integer"}))
			return 0, 0, false
		}
		page = n
	}
	return limit, (page - 1) * limit, true
}

// flag reads a 0/1 or true/false query parameter
func flag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, service.ValidationError("invalid request body", map[string]string{"body": err.Error()}))
		return false
	}
	return true
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
