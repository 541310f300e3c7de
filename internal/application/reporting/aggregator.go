// Package reporting combines precinct selections and saved segments into one
// population-weighted profile for report renderers.
package reporting

import (
	"sort"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/domain/scoring"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// AggregatedProfile is the read-only aggregate consumed by report renderers.
// Numeric blocks follow the shared population-weighted aggregation rules.
type AggregatedProfile struct {
	SegmentID     string   `json:"segment_id,omitempty"`
	SegmentName   string   `json:"segment_name,omitempty"`
	PrecinctCount int      `json:"precinct_count"`
	PrecinctIDs   []string `json:"precinct_ids"`
	PrecinctNames []string `json:"precinct_names"`
	Jurisdictions []string `json:"jurisdictions"`
	TotalWeight   float64  `json:"total_weight"`

	Demographics precinct.Demographics         `json:"demographics"`
	Political    precinct.PoliticalAffiliation `json:"political"`
	Electoral    precinct.ElectoralMetrics     `json:"electoral"`
	Targeting    precinct.TargetingScores      `json:"targeting"`
	Engagement   *precinct.EngagementMetrics   `json:"engagement,omitempty"`
	Tapestry     *precinct.TapestryProfile     `json:"tapestry,omitempty"`

	ElectionHistory []precinct.ElectionResult `json:"election_history"`

	DominantParty       string                   `json:"dominant_party"`
	Competitiveness     scoring.Competitiveness  `json:"competitiveness"`
	Volatility          scoring.Volatility       `json:"volatility"`
	RecommendedStrategy scoring.Strategy         `json:"recommended_strategy"`
	StrategyBreakdown   map[scoring.Strategy]int `json:"strategy_breakdown"`
}

// AggregatorConfig holds the dependencies of Aggregator.
type AggregatorConfig struct {
	Dataset        *precinct.Dataset
	Logger         logging.Logger
	FallbackWeight float64
}

// Aggregator builds aggregated profiles.  It is safe for concurrent use.
type Aggregator struct {
	ds       *precinct.Dataset
	logger   logging.Logger
	fallback float64
}

// NewAggregator validates cfg and constructs an Aggregator.
func NewAggregator(cfg AggregatorConfig) (*Aggregator, error) {
	if cfg.Dataset == nil {
		return nil, errors.InvalidParam("reporting: dataset is required")
	}
	a := &Aggregator{ds: cfg.Dataset, logger: logging.OrNop(cfg.Logger), fallback: cfg.FallbackWeight}
	if a.fallback <= 0 {
		a.fallback = precinct.DefaultFallbackWeight
	}
	return a, nil
}

// AggregatePrecincts combines the given precincts.  Unmatched ids are dropped;
// when none match the call fails.
func (a *Aggregator) AggregatePrecincts(precinctIDs []string) (*AggregatedProfile, error) {
	records := a.ds.Resolve(precinctIDs)
	if len(records) == 0 {
		return nil, errors.NoMatchingPrecincts()
	}
	return a.build(records), nil
}

// AggregateSegment combines the precincts of a saved segment.
func (a *Aggregator) AggregateSegment(seg *precinct.SegmentDefinition) (*AggregatedProfile, error) {
	if seg == nil || len(seg.Results) == 0 {
		return nil, errors.EmptySegment()
	}
	records := a.ds.Resolve(seg.PrecinctIDs())
	if len(records) == 0 {
		return nil, errors.EmptySegment()
	}
	p := a.build(records)
	p.SegmentID, p.SegmentName = seg.ID, seg.Name
	return p, nil
}

func (a *Aggregator) build(records []*precinct.Record) *AggregatedProfile {
	agg := precinct.AggregateRecords(records, a.fallback)

	p := &AggregatedProfile{
		PrecinctCount:     agg.Count,
		PrecinctIDs:       make([]string, 0, len(records)),
		PrecinctNames:     make([]string, 0, len(records)),
		TotalWeight:       agg.TotalWeight,
		Demographics:      agg.Demographics,
		Political:         agg.Political,
		Electoral:         agg.Electoral,
		Targeting:         agg.Targeting,
		Engagement:        agg.Engagement,
		Tapestry:          agg.Tapestry,
		ElectionHistory:   agg.HistoryDescending(),
		StrategyBreakdown: make(map[scoring.Strategy]int),
	}

	jurisdictions := make(map[string]struct{})
	for _, r := range records {
		p.PrecinctIDs = append(p.PrecinctIDs, r.ID)
		p.PrecinctNames = append(p.PrecinctNames, r.Name)
		if r.JurisdictionName != "" {
			jurisdictions[r.JurisdictionName] = struct{}{}
		}
		t := r.Targeting
		p.StrategyBreakdown[scoring.ResolveStrategy(t.Strategy, t.GOTVPriority, t.PersuasionOpportunity)]++
	}
	for j := range jurisdictions {
		p.Jurisdictions = append(p.Jurisdictions, j)
	}
	sort.Strings(p.Jurisdictions)

	lean := agg.Electoral.PartisanLean
	p.DominantParty = scoring.DominantParty(lean)
	p.Competitiveness = scoring.ClassifyCompetitiveness(lean)
	p.Electoral.Competitiveness = string(p.Competitiveness)
	p.Volatility = scoring.ClassifyVolatility(agg.Electoral.SwingPotential)
	p.RecommendedStrategy = scoring.RecommendedStrategy(agg.Targeting.GOTVPriority, agg.Targeting.PersuasionOpportunity)
	p.Targeting.Strategy = string(p.RecommendedStrategy)

	a.logger.Debug("precincts aggregated",
		logging.Int("precincts", p.PrecinctCount),
		logging.Float64("total_weight", p.TotalWeight))
	return p
}

//Personal.AI order the ending
