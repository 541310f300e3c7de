package comparison

import (
	"strings"
	"time"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/domain/scoring"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// ServiceConfig holds the dependencies of Service.
type ServiceConfig struct {
	Dataset *precinct.Dataset
	Logger  logging.Logger

	// FallbackWeight is the aggregation weight of a precinct without a
	// voting-age population.  Zero selects precinct.DefaultFallbackWeight.
	FallbackWeight float64

	// SampleSize caps the suggestions carried by not-found errors.  Zero
	// selects precinct.DefaultSampleSize.
	SampleSize int

	// Clock stamps comparison results.  Nil selects time.Now.
	Clock func() time.Time
}

// Service builds comparison entities and compares them.  It holds no mutable
// state and is safe for concurrent use.
type Service struct {
	ds       *precinct.Dataset
	logger   logging.Logger
	fallback float64
	samples  int
	now      func() time.Time
}

// NewService validates cfg and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Dataset == nil {
		return nil, errors.InvalidParam("comparison: dataset is required")
	}
	s := &Service{
		ds:       cfg.Dataset,
		logger:   logging.OrNop(cfg.Logger),
		fallback: cfg.FallbackWeight,
		samples:  cfg.SampleSize,
		now:      cfg.Clock,
	}
	if s.fallback <= 0 {
		s.fallback = precinct.DefaultFallbackWeight
	}
	if s.samples <= 0 {
		s.samples = precinct.DefaultSampleSize
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Entity builder
// ---------------------------------------------------------------------------

// BuildPrecinctEntity builds a precinct entity by exact id, falling back to a
// case-insensitive exact name match.
func (s *Service) BuildPrecinctEntity(identifier string) (*Entity, error) {
	r, ok := s.ds.Precinct(identifier)
	if !ok {
		return nil, errors.PrecinctNotFound(identifier, s.ds.PrecinctSamples(s.samples))
	}
	return s.precinctEntity(r), nil
}

func (s *Service) precinctEntity(r *precinct.Record) *Entity {
	history := r.HistoryDescending()
	demo := demographicsOf(r.Demographics)
	e := &Entity{
		ID:               r.ID,
		Name:             r.Name,
		Type:             EntityPrecinct,
		PrecinctCount:    1,
		Demographics:     demo,
		PoliticalProfile: politicalOf(r.Political, r.Electoral.PartisanLean),
		Electoral:        electoralOf(r.Electoral, history),
		TargetingScores: targetingOf(r.Targeting,
			scoring.ResolveStrategy(r.Targeting.Strategy, r.Targeting.GOTVPriority, r.Targeting.PersuasionOpportunity),
			demo.DensityClass),
		ElectionHistory: history,
	}
	if r.JurisdictionID != "" {
		ref := &JurisdictionRef{ID: r.JurisdictionID, Name: r.JurisdictionName, Type: r.JurisdictionType}
		if j, ok := s.ds.Jurisdiction(r.JurisdictionID); ok {
			ref.Name, ref.Type = j.Name, j.Type
		}
		e.ParentJurisdiction = ref
	}
	return e
}

// BuildJurisdictionEntity builds a population-weighted jurisdiction entity by
// id or case-insensitive name.
func (s *Service) BuildJurisdictionEntity(identifier string) (*Entity, error) {
	j, ok := s.ds.Jurisdiction(identifier)
	if !ok {
		return nil, errors.JurisdictionNotFound(identifier, s.ds.JurisdictionSamples(s.samples))
	}
	members := s.ds.Members(j.ID)
	if len(members) == 0 {
		return nil, errors.EmptyJurisdiction(j.Name)
	}

	agg := precinct.AggregateRecords(members, s.fallback)
	history := agg.HistoryDescending()
	demo := demographicsOf(agg.Demographics)

	s.logger.Debug("jurisdiction aggregated",
		logging.String("jurisdiction_id", j.ID),
		logging.Int("precincts", agg.Count),
		logging.Float64("total_weight", agg.TotalWeight))

	return &Entity{
		ID:               j.ID,
		Name:             j.Name,
		Type:             EntityJurisdiction,
		PrecinctCount:    agg.Count,
		Demographics:     demo,
		PoliticalProfile: politicalOf(agg.Political, agg.Electoral.PartisanLean),
		Electoral:        electoralOf(agg.Electoral, history),
		TargetingScores: targetingOf(agg.Targeting,
			scoring.RecommendedStrategy(agg.Targeting.GOTVPriority, agg.Targeting.PersuasionOpportunity),
			demo.DensityClass),
		ElectionHistory: history,
	}, nil
}

// BuildEntityByType dispatches on a boundary-type tag, "precincts" or
// "jurisdictions".
func (s *Service) BuildEntityByType(identifier, boundaryType string) (*Entity, error) {
	switch strings.ToLower(strings.TrimSpace(boundaryType)) {
	case precinct.BoundaryPrecincts:
		return s.BuildPrecinctEntity(identifier)
	case precinct.BoundaryJurisdictions:
		return s.BuildJurisdictionEntity(identifier)
	default:
		return nil, errors.UnsupportedBoundaryType(boundaryType)
	}
}

// ---------------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------------

// Compare diffs two entities.  Neither input is modified.
func (s *Service) Compare(left, right *Entity) *Result {
	return &Result{
		Left:           left,
		Right:          right,
		Differences:    Diff(left, right),
		ComparisonType: TypeOf(left, right),
		CreatedAt:      s.now().UTC(),
	}
}

// CompareByType builds both entities by boundary type and compares them.
func (s *Service) CompareByType(leftID, leftType, rightID, rightType string) (*Result, error) {
	left, err := s.BuildEntityByType(leftID, leftType)
	if err != nil {
		return nil, err
	}
	right, err := s.BuildEntityByType(rightID, rightType)
	if err != nil {
		return nil, err
	}
	return s.Compare(left, right), nil
}

//Personal.AI order the ending
