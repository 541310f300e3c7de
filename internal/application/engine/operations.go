package engine

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/precinct-analytics/internal/application/canvassing"
	"github.com/turtacn/precinct-analytics/internal/application/comparison"
	"github.com/turtacn/precinct-analytics/internal/application/lookalike"
	"github.com/turtacn/precinct-analytics/internal/application/reporting"
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// Universe source labels for the universe_doors histogram.
const (
	sourcePrecincts = "precincts"
	sourceSegment   = "segment"
)

// ─────────────────────────────────────────────────────────────────────────────
// Entities and comparison
// ─────────────────────────────────────────────────────────────────────────────

// BuildEntity builds a comparison entity for a precinct or jurisdiction.
func (e *Engine) BuildEntity(identifier, boundaryType string) (ent *comparison.Entity, err error) {
	start := time.Now()
	defer func() { err = e.observe(prom.OpBuildEntity, start, err) }()
	return e.comparison.BuildEntityByType(identifier, boundaryType)
}

// Compare builds both entities and compares them.
func (e *Engine) Compare(leftID, leftType, rightID, rightType string) (res *comparison.Result, err error) {
	start := time.Now()
	defer func() { err = e.observe(prom.OpCompare, start, err) }()
	return e.comparison.CompareByType(leftID, leftType, rightID, rightType)
}

// ─────────────────────────────────────────────────────────────────────────────
// Canvassing universes
// ─────────────────────────────────────────────────────────────────────────────

// CreateUniverse sizes a universe from precinct ids or names and registers it.
func (e *Engine) CreateUniverse(ctx context.Context, name string, precinctIDs []string, cfg *canvassing.Config) (u *canvassing.Universe, err error) {
	start := time.Now()
	defer func() { err = e.observe(prom.OpCreateUniverse, start, err) }()

	u, err = e.canvass.CreateUniverse(name, precinctIDs, cfg)
	if err != nil {
		return nil, err
	}
	if err = e.register(ctx, u, sourcePrecincts); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUniverseFromResults sizes a universe from ad-hoc segment rows and
// registers it.  The rows are saved as a segment under the universe's
// generated segment id so the reference resolves through GetSegment.
func (e *Engine) CreateUniverseFromResults(ctx context.Context, results []precinct.SegmentResult, name, description string, cfg *canvassing.Config) (u *canvassing.Universe, err error) {
	start := time.Now()
	defer func() { err = e.observe(prom.OpCreateUniverse, start, err) }()

	u, err = e.canvass.CreateUniverseFromSegment(results, name, description, cfg)
	if err != nil {
		return nil, err
	}
	if _, err = e.SaveSegment(ctx, &precinct.SegmentDefinition{
		ID:          u.SegmentID,
		Name:        u.Name,
		Description: description,
		Results:     results,
	}); err != nil {
		return nil, err
	}
	if err = e.register(ctx, u, sourceSegment); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUniverseFromSegment sizes a universe from a saved segment and keeps
// the saved segment's id as its SegmentID.  An empty name takes the
// segment's name.
func (e *Engine) CreateUniverseFromSegment(ctx context.Context, segmentID, name string, cfg *canvassing.Config) (u *canvassing.Universe, err error) {
	seg, err := e.GetSegment(ctx, segmentID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = seg.Name
	}

	start := time.Now()
	defer func() { err = e.observe(prom.OpCreateUniverse, start, err) }()

	u, err = e.canvass.CreateUniverseFromSegment(seg.Results, name, seg.Description, cfg)
	if err != nil {
		return nil, err
	}
	u.SegmentID = seg.ID
	if err = e.register(ctx, u, sourceSegment); err != nil {
		return nil, err
	}
	return u, nil
}

func (e *Engine) register(ctx context.Context, u *canvassing.Universe, source string) error {
	err := e.store.SaveUniverse(ctx, u)
	e.storeOp("save_universe", err)
	if err != nil {
		return err
	}
	e.metrics.UniverseDoors.WithLabelValues(source).Observe(float64(u.TotalEstimatedDoors))
	e.metrics.UniversesStored.WithLabelValues(e.backend).Inc()
	return nil
}

// GetUniverse returns a copy of a registered universe.
func (e *Engine) GetUniverse(ctx context.Context, id string) (*canvassing.Universe, error) {
	u, err := e.store.GetUniverse(ctx, id)
	e.storeOp("get_universe", err)
	return u, err
}

// ListUniverses returns every registered universe, oldest first.
func (e *Engine) ListUniverses(ctx context.Context) ([]*canvassing.Universe, error) {
	us, err := e.store.ListUniverses(ctx)
	e.storeOp("list_universes", err)
	if err == nil {
		e.metrics.UniversesStored.WithLabelValues(e.backend).Set(float64(len(us)))
	}
	return us, err
}

// DeleteUniverse removes a registered universe.
func (e *Engine) DeleteUniverse(ctx context.Context, id string) error {
	err := e.store.DeleteUniverse(ctx, id)
	e.storeOp("delete_universe", err)
	if err == nil {
		e.metrics.UniversesStored.WithLabelValues(e.backend).Dec()
		e.logger.Info("universe deleted", logging.String("universe_id", id))
	}
	return err
}

// SortUniverse re-ranks a registered universe by key and stores the result.
// Unknown keys rank by combined score.
func (e *Engine) SortUniverse(ctx context.Context, id, key string) (u *canvassing.Universe, err error) {
	start := time.Now()
	defer func() { err = e.observe(prom.OpSortUniverse, start, err) }()

	if u, err = e.GetUniverse(ctx, id); err != nil {
		return nil, err
	}
	u = e.canvass.SortUniverse(u, canvassing.ParseSortKey(key))
	err = e.store.SaveUniverse(ctx, u)
	e.storeOp("save_universe", err)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// EstimateStaffing plans volunteer shifts for a registered universe.
func (e *Engine) EstimateStaffing(ctx context.Context, id string, req canvassing.StaffingRequest) (plan *canvassing.StaffingPlan, err error) {
	start := time.Now()
	defer func() { err = e.observe(prom.OpEstimateStaff, start, err) }()

	u, err := e.GetUniverse(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.canvass.PlanStaffing(u, req)
}

// OptimizeTurfs groups a registered universe into turfs.
func (e *Engine) OptimizeTurfs(ctx context.Context, id string, opts *canvassing.TurfOptions) (turfs []canvassing.Turf, err error) {
	start := time.Now()
	defer func() { err = e.observe(prom.OpOptimizeTurfs, start, err) }()

	u, err := e.GetUniverse(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.canvass.OptimizeTurfs(u, opts), nil
}

// UniverseSummary projects a registered universe.
func (e *Engine) UniverseSummary(ctx context.Context, id string) (*canvassing.Summary, error) {
	u, err := e.GetUniverse(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.canvass.GenerateSummary(u), nil
}

// RouteSuggestions orders a comma-separated list of precinct ids.
func (e *Engine) RouteSuggestions(token string) canvassing.RouteSuggestion {
	start := time.Now()
	r := e.canvass.GetRouteSuggestions(token)
	_ = e.observe(prom.OpRouteSuggestion, start, nil)
	return r
}

// CanvassMetrics estimates doors and time for an ad-hoc selection.
func (e *Engine) CanvassMetrics(precinctIDs []string) canvassing.Metrics {
	return e.canvass.CalculateMetrics(precinctIDs)
}

// CanvassDefaults returns the effective universe sizing defaults.
func (e *Engine) CanvassDefaults() canvassing.Config { return e.canvass.Defaults() }

// ─────────────────────────────────────────────────────────────────────────────
// Lookalikes
// ─────────────────────────────────────────────────────────────────────────────

// FindLookalikes scores precincts against a reference set.  Segment
// references are resolved through the registry.
func (e *Engine) FindLookalikes(ctx context.Context, p lookalike.Profile) (res *lookalike.Results, err error) {
	start := time.Now()
	defer func() { err = e.observe(prom.OpFindLookalikes, start, err) }()

	res, err = e.matcher.FindLookalikes(ctx, p)
	if err != nil {
		return nil, err
	}
	e.metrics.LookalikeMatches.WithLabelValues(string(res.Algorithm)).Observe(float64(len(res.Matches)))
	return res, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Reports
// ─────────────────────────────────────────────────────────────────────────────

// AggregatePrecincts builds a report profile for precinct ids or names.
func (e *Engine) AggregatePrecincts(precinctIDs []string) (p *reporting.AggregatedProfile, err error) {
	start := time.Now()
	defer func() { err = e.observe(prom.OpAggregate, start, err) }()
	return e.reports.AggregatePrecincts(precinctIDs)
}

// AggregateSegment builds a report profile for a saved segment.
func (e *Engine) AggregateSegment(ctx context.Context, segmentID string) (p *reporting.AggregatedProfile, err error) {
	start := time.Now()
	defer func() { err = e.observe(prom.OpAggregate, start, err) }()

	seg, err := e.GetSegment(ctx, segmentID)
	if err != nil {
		return nil, err
	}
	return e.reports.AggregateSegment(seg)
}

// RenderReport renders p as a Markdown or HTML document.
func (e *Engine) RenderReport(ctx context.Context, p *reporting.AggregatedProfile, format string) (res *reporting.RenderResult, err error) {
	start := time.Now()
	defer func() { err = e.observe(prom.OpRenderReport, start, err) }()

	f, err := reporting.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return e.renderer.Render(ctx, p, f)
}

// ─────────────────────────────────────────────────────────────────────────────
// Segments
// ─────────────────────────────────────────────────────────────────────────────

// SaveSegment registers seg, assigning an id when it has none, and returns
// the stored definition.
func (e *Engine) SaveSegment(ctx context.Context, seg *precinct.SegmentDefinition) (*precinct.SegmentDefinition, error) {
	if seg == nil {
		return nil, errors.InvalidParam("segment is required")
	}
	saved := *seg
	if strings.TrimSpace(saved.ID) == "" {
		saved.ID = e.newID()
	}
	err := e.store.SaveSegment(ctx, &saved)
	e.storeOp("save_segment", err)
	if err != nil {
		return nil, err
	}
	e.logger.Info("segment saved",
		logging.String("segment_id", saved.ID),
		logging.Int("results", len(saved.Results)))
	return &saved, nil
}

// GetSegment returns a saved segment.
func (e *Engine) GetSegment(ctx context.Context, id string) (*precinct.SegmentDefinition, error) {
	seg, err := e.store.GetSegment(ctx, id)
	e.storeOp("get_segment", err)
	return seg, err
}

// ListSegments returns every saved segment ordered by id.
func (e *Engine) ListSegments(ctx context.Context) ([]*precinct.SegmentDefinition, error) {
	ss, err := e.store.ListSegments(ctx)
	e.storeOp("list_segments", err)
	return ss, err
}

// DeleteSegment removes a saved segment.
func (e *Engine) DeleteSegment(ctx context.Context, id string) error {
	err := e.store.DeleteSegment(ctx, id)
	e.storeOp("delete_segment", err)
	return err
}

func (e *Engine) storeOp(op string, err error) {
	prom.RecordStoreOperation(e.metrics, e.backend, op, err)
}

//Personal.AI order the ending
