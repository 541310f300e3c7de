package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
)

// SegmentService is the saved-segment registry.
type SegmentService interface {
	SaveSegment(ctx context.Context, seg *precinct.SegmentDefinition) (*precinct.SegmentDefinition, error)
	GetSegment(ctx context.Context, id string) (*precinct.SegmentDefinition, error)
	ListSegments(ctx context.Context) ([]*precinct.SegmentDefinition, error)
	DeleteSegment(ctx context.Context, id string) error
}

// SegmentHandler serves /segments.
type SegmentHandler struct {
	svc SegmentService
}

// NewSegmentHandler creates a SegmentHandler.
func NewSegmentHandler(svc SegmentService) *SegmentHandler {
	return &SegmentHandler{svc: svc}
}

// Save handles POST /segments.  A missing id is assigned by the engine.
func (h *SegmentHandler) Save(c *gin.Context) {
	var seg precinct.SegmentDefinition
	if !bindJSON(c, &seg) {
		return
	}
	saved, err := h.svc.SaveSegment(c.Request.Context(), &seg)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// List handles GET /segments.
func (h *SegmentHandler) List(c *gin.Context) {
	segs, err := h.svc.ListSegments(c.Request.Context())
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, newList(segs))
}

// Get handles GET /segments/:id.
func (h *SegmentHandler) Get(c *gin.Context) {
	seg, err := h.svc.GetSegment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, seg)
}

// Delete handles DELETE /segments/:id.
func (h *SegmentHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteSegment(c.Request.Context(), c.Param("id")); err != nil {
		writeAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

//Personal.AI order the ending
