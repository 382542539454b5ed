package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/lotpilot/internal/errors"
)

// respondError writes the standard {"error", "code"} body for err. Server
// errors are attached to the context so the logging middleware records them.
func respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	body := gin.H{
		"error": err.Error(),
		"code":  errors.CodeOf(err),
	}
	if appErr, ok := errors.As(err); ok {
		body["error"] = appErr.Message
		if appErr.Details != "" {
			body["details"] = appErr.Details
		}
	}
	if status >= 500 {
		_ = c.Error(err)
		body["error"] = "internal server error"
	}
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the request body into dst, responding 400 on failure
func bindJSON(c *gin.Context, dst interface{}, what string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, errors.ValidationError("Invalid "+what, err).WithDetails(err.Error()))
		return false
	}
	return true
}

// queryInt parses an optional non-negative integer query parameter
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.InvalidInput("invalid "+name+" parameter", err).WithDetails(raw)
	}
	return n, nil
}
