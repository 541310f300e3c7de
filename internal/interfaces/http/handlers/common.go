// Package handlers implements the REST resources of the analytics API on top
// of the engine's operations.  Every handler depends on a narrow interface
// that *engine.Engine satisfies.
package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Detail  string   `json:"detail,omitempty"`
	Samples []string `json:"samples,omitempty"`
}

// ListResponse wraps collection results.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func newList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}

// writeAppError maps err to its HTTP status.  Server-side failures are masked
// with the code's default message; client errors keep their message, detail
// and sample identifiers.
func writeAppError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ae *errors.AppError
	if !stderrors.As(err, &ae) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		})
		return
	}

	status := errors.HTTPStatusForCode(ae.Code)
	resp := ErrorResponse{Code: string(ae.Code), Message: ae.Message, Detail: ae.Detail, Samples: ae.Samples}
	if status >= http.StatusInternalServerError {
		resp.Message = errors.DefaultMessageForCode(ae.Code)
		resp.Detail = ""
	}
	c.AbortWithStatusJSON(status, resp)
}

// bindJSON decodes the request body into v, writing a 400 on failure.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		writeAppError(c, errors.InvalidParam("invalid request body").WithDetail(err.Error()))
		return false
	}
	return true
}

// queryList reads a list parameter given either as repeated keys or as one
// comma-separated value.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidParam(key + " must be an integer").WithDetail(raw)
	}
	return v, nil
}

func queryFloat(c *gin.Context, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.InvalidParam(key + " must be a number").WithDetail(raw)
	}
	return v, nil
}

//Personal.AI order the ending
