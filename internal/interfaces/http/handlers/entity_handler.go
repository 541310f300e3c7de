package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/precinct-analytics/internal/application/comparison"
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
)

// EntityService builds and compares precinct and jurisdiction entities.
type EntityService interface {
	BuildEntity(identifier, boundaryType string) (*comparison.Entity, error)
	Compare(leftID, leftType, rightID, rightType string) (*comparison.Result, error)
}

// EntityHandler serves /entities and /comparisons.
type EntityHandler struct {
	svc EntityService
}

// NewEntityHandler creates an EntityHandler.
func NewEntityHandler(svc EntityService) *EntityHandler {
	return &EntityHandler{svc: svc}
}

// EntityRef names one side of a comparison.  Type defaults to precincts.
type EntityRef struct {
	ID   string `json:"id" binding:"required"`
	Type string `json:"type"`
}

func (r EntityRef) boundary() string {
	if r.Type == "" {
		return precinct.BoundaryPrecincts
	}
	return r.Type
}

// CompareRequest is the body of POST /comparisons.
type CompareRequest struct {
	Left  EntityRef `json:"left" binding:"required"`
	Right EntityRef `json:"right" binding:"required"`
}

// Get handles GET /entities/:type/:id.
func (h *EntityHandler) Get(c *gin.Context) {
	ent, err := h.svc.BuildEntity(c.Param("id"), c.Param("type"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, ent)
}

// Compare handles POST /comparisons.
func (h *EntityHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Compare(req.Left.ID, req.Left.boundary(), req.Right.ID, req.Right.boundary())
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

//Personal.AI order the ending
