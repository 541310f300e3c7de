package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/precinct-analytics/internal/application/lookalike"
)

// LookalikeService finds precincts similar to a reference set.
type LookalikeService interface {
	FindLookalikes(ctx context.Context, p lookalike.Profile) (*lookalike.Results, error)
}

// LookalikeHandler serves /lookalikes.
type LookalikeHandler struct {
	svc LookalikeService
}

// NewLookalikeHandler creates a LookalikeHandler.
func NewLookalikeHandler(svc LookalikeService) *LookalikeHandler {
	return &LookalikeHandler{svc: svc}
}

// Find handles POST /lookalikes.  The body is a lookalike profile; the
// reference set is validated by the matcher.
func (h *LookalikeHandler) Find(c *gin.Context) {
	var p lookalike.Profile
	if !bindJSON(c, &p) {
		return
	}
	res, err := h.svc.FindLookalikes(c.Request.Context(), p)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

//Personal.AI order the ending
