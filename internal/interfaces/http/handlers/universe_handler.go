package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/precinct-analytics/internal/application/canvassing"
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// UniverseService is the canvassing surface of the engine.
type UniverseService interface {
	CreateUniverse(ctx context.Context, name string, precinctIDs []string, cfg *canvassing.Config) (*canvassing.Universe, error)
	CreateUniverseFromResults(ctx context.Context, results []precinct.SegmentResult, name, description string, cfg *canvassing.Config) (*canvassing.Universe, error)
	CreateUniverseFromSegment(ctx context.Context, segmentID, name string, cfg *canvassing.Config) (*canvassing.Universe, error)
	GetUniverse(ctx context.Context, id string) (*canvassing.Universe, error)
	ListUniverses(ctx context.Context) ([]*canvassing.Universe, error)
	DeleteUniverse(ctx context.Context, id string) error
	SortUniverse(ctx context.Context, id, key string) (*canvassing.Universe, error)
	EstimateStaffing(ctx context.Context, id string, req canvassing.StaffingRequest) (*canvassing.StaffingPlan, error)
	OptimizeTurfs(ctx context.Context, id string, opts *canvassing.TurfOptions) ([]canvassing.Turf, error)
	UniverseSummary(ctx context.Context, id string) (*canvassing.Summary, error)
	RouteSuggestions(token string) canvassing.RouteSuggestion
	CanvassMetrics(precinctIDs []string) canvassing.Metrics
	CanvassDefaults() canvassing.Config
}

// Staffing query defaults.
const (
	DefaultStaffingDays  = 14
	DefaultHoursPerShift = 3.0
)

// UniverseHandler serves /universes and /canvass.
type UniverseHandler struct {
	svc UniverseService
}

// NewUniverseHandler creates a UniverseHandler.
func NewUniverseHandler(svc UniverseService) *UniverseHandler {
	return &UniverseHandler{svc: svc}
}

// CreateUniverseRequest is the body of POST /universes.  Exactly one of
// PrecinctIDs, SegmentID and SegmentResults selects the precincts; a present
// but empty list still counts as the selected source.
type CreateUniverseRequest struct {
	Name           string                   `json:"name"`
	Description    string                   `json:"description"`
	PrecinctIDs    []string                 `json:"precinct_ids"`
	SegmentID      string                   `json:"segment_id"`
	SegmentResults []precinct.SegmentResult `json:"segment_results"`
	Config         *canvassing.Config       `json:"config"`
	SortBy         string                   `json:"sort_by"`
}

func (r *CreateUniverseRequest) sources() int {
	n := 0
	if r.PrecinctIDs != nil {
		n++
	}
	if r.SegmentID != "" {
		n++
	}
	if r.SegmentResults != nil {
		n++
	}
	return n
}

// Create handles POST /universes.
func (h *UniverseHandler) Create(c *gin.Context) {
	var req CreateUniverseRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.sources() != 1 {
		writeAppError(c, errors.InvalidParam("exactly one of precinct_ids, segment_id or segment_results is required"))
		return
	}
	if req.SegmentID == "" && req.Name == "" {
		writeAppError(c, errors.InvalidParam("name is required"))
		return
	}

	ctx := c.Request.Context()
	var (
		u   *canvassing.Universe
		err error
	)
	switch {
	case req.SegmentID != "":
		u, err = h.svc.CreateUniverseFromSegment(ctx, req.SegmentID, req.Name, req.Config)
	case req.SegmentResults != nil:
		u, err = h.svc.CreateUniverseFromResults(ctx, req.SegmentResults, req.Name, req.Description, req.Config)
	default:
		u, err = h.svc.CreateUniverse(ctx, req.Name, req.PrecinctIDs, req.Config)
	}
	if err == nil && req.SortBy != "" {
		u, err = h.svc.SortUniverse(ctx, u.ID, req.SortBy)
	}
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// List handles GET /universes.
func (h *UniverseHandler) List(c *gin.Context) {
	us, err := h.svc.ListUniverses(c.Request.Context())
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, newList(us))
}

// Get handles GET /universes/:id.
func (h *UniverseHandler) Get(c *gin.Context) {
	u, err := h.svc.GetUniverse(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /universes/:id.
func (h *UniverseHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteUniverse(c.Request.Context(), c.Param("id")); err != nil {
		writeAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sort handles POST /universes/:id/sort?by=<key>.
func (h *UniverseHandler) Sort(c *gin.Context) {
	u, err := h.svc.SortUniverse(c.Request.Context(), c.Param("id"), c.DefaultQuery("by", string(canvassing.SortByCombined)))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Staffing handles GET /universes/:id/staffing?days=&hours_per_shift=&volunteers=.
func (h *UniverseHandler) Staffing(c *gin.Context) {
	days, err := queryInt(c, "days", DefaultStaffingDays)
	if err != nil {
		writeAppError(c, err)
		return
	}
	hours, err := queryFloat(c, "hours_per_shift", DefaultHoursPerShift)
	if err != nil {
		writeAppError(c, err)
		return
	}
	volunteers, err := queryInt(c, "volunteers", 0)
	if err != nil {
		writeAppError(c, err)
		return
	}
	plan, err := h.svc.EstimateStaffing(c.Request.Context(), c.Param("id"), canvassing.StaffingRequest{
		Days:                days,
		HoursPerShift:       hours,
		VolunteersAvailable: volunteers,
	})
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Turfs handles POST /universes/:id/turfs.  An empty body uses the
// universe's turf size.
func (h *UniverseHandler) Turfs(c *gin.Context) {
	var opts canvassing.TurfOptions
	if c.Request.ContentLength != 0 && !bindJSON(c, &opts) {
		return
	}
	turfs, err := h.svc.OptimizeTurfs(c.Request.Context(), c.Param("id"), &opts)
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, newList(turfs))
}

// Summary handles GET /universes/:id/summary.
func (h *UniverseHandler) Summary(c *gin.Context) {
	s, err := h.svc.UniverseSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Route handles GET /canvass/route?precincts=a,b.
func (h *UniverseHandler) Route(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.RouteSuggestions(strings.Join(queryList(c, "precincts"), ",")))
}

// Metrics handles GET /canvass/metrics?precincts=a,b.
func (h *UniverseHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.CanvassMetrics(queryList(c, "precincts")))
}

// Defaults handles GET /canvass/defaults.
func (h *UniverseHandler) Defaults(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.CanvassDefaults())
}

//Personal.AI order the ending
