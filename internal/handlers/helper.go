package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseUintParam reads a positive numeric path parameter. On failure it writes
// the 400 response and returns false.
func ParseUintParam(c *gin.Context, param string) (uint, bool) {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return 0, false
	}

	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}

// ParseLimitQuery reads an optional positive limit query parameter, falling back
// to def when absent or malformed.
func ParseLimitQuery(c *gin.Context, def int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}

// parsePath reads several id path parameters in order, stopping at the first
// invalid one.
func parsePath(c *gin.Context, params ...string) ([]uint, bool) {
	ids := make([]uint, 0, len(params))
	for _, param := range params {
		id, ok := ParseUintParam(c, param)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
