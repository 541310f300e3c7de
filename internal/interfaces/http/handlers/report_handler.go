package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/precinct-analytics/internal/application/reporting"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// ReportService aggregates report profiles.
type ReportService interface {
	AggregatePrecincts(precinctIDs []string) (*reporting.AggregatedProfile, error)
	AggregateSegment(ctx context.Context, segmentID string) (*reporting.AggregatedProfile, error)
	RenderReport(ctx context.Context, p *reporting.AggregatedProfile, format string) (*reporting.RenderResult, error)
}

// ReportHandler serves /reports.
type ReportHandler struct {
	svc ReportService
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// ProfileRequest is the body of POST /reports/profile.
type ProfileRequest struct {
	PrecinctIDs []string `json:"precinct_ids"`
	SegmentID   string   `json:"segment_id"`
}

// Profile handles POST /reports/profile.
func (h *ReportHandler) Profile(c *gin.Context) {
	p, ok := h.aggregate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

// Render handles POST /reports/render?format=markdown|html.  The body is the
// same as for Profile.
func (h *ReportHandler) Render(c *gin.Context) {
	p, ok := h.aggregate(c)
	if !ok {
		return
	}
	res, err := h.svc.RenderReport(c.Request.Context(), p, c.DefaultQuery("format", string(reporting.FormatMarkdown)))
	if err != nil {
		writeAppError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+res.FileName+`"`)
	c.Data(http.StatusOK, res.ContentType, res.Content)
}

func (h *ReportHandler) aggregate(c *gin.Context) (*reporting.AggregatedProfile, bool) {
	var req ProfileRequest
	if !bindJSON(c, &req) {
		return nil, false
	}
	if (len(req.PrecinctIDs) > 0) == (req.SegmentID != "") {
		writeAppError(c, errors.InvalidParam("exactly one of precinct_ids or segment_id is required"))
		return nil, false
	}

	var (
		p   *reporting.AggregatedProfile
		err error
	)
	if req.SegmentID != "" {
		p, err = h.svc.AggregateSegment(c.Request.Context(), req.SegmentID)
	} else {
		p, err = h.svc.AggregatePrecincts(req.PrecinctIDs)
	}
	if err != nil {
		writeAppError(c, err)
		return nil, false
	}
	return p, true
}

//Personal.AI order the ending
