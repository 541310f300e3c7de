package comparison

import (
	"math"
	"time"
)

// Type tags a comparison by the kinds of its two entities.
type Type string

const (
	PrecinctToPrecinct         Type = "precinct-to-precinct"
	JurisdictionToJurisdiction Type = "jurisdiction-to-jurisdiction"
	CrossBoundary              Type = "cross-boundary"
)

// MetricDiff is one compared metric.  Difference is left minus right and
// PercentDiff is Difference relative to |right|, or 0 when right is 0.
type MetricDiff struct {
	Metric      string  `json:"metric"`
	Left        float64 `json:"left"`
	Right       float64 `json:"right"`
	Difference  float64 `json:"difference"`
	PercentDiff float64 `json:"percent_diff"`
}

// Differences groups metric diffs by category.
type Differences struct {
	Demographics     []MetricDiff `json:"demographics"`
	PoliticalProfile []MetricDiff `json:"political_profile"`
	Electoral        []MetricDiff `json:"electoral"`
	Targeting        []MetricDiff `json:"targeting"`
}

// Result is a comparison of two entities.  Left and Right reference the
// caller's entities.
type Result struct {
	Left           *Entity     `json:"left"`
	Right          *Entity     `json:"right"`
	Differences    Differences `json:"differences"`
	ComparisonType Type        `json:"comparison_type"`
	CreatedAt      time.Time   `json:"created_at"`
}

type metric struct {
	name string
	get  func(*Entity) float64
}

var demographicMetrics = []metric{
	{"total_population", func(e *Entity) float64 { return e.Demographics.TotalPopulation }},
	{"voting_age_population", func(e *Entity) float64 { return e.Demographics.VotingAgePopulation }},
	{"median_age", func(e *Entity) float64 { return e.Demographics.MedianAge }},
	{"median_household_income", func(e *Entity) float64 { return e.Demographics.MedianHouseholdIncome }},
	{"college_pct", func(e *Entity) float64 { return e.Demographics.CollegePct }},
	{"homeowner_pct", func(e *Entity) float64 { return e.Demographics.HomeownerPct }},
	{"diversity_index", func(e *Entity) float64 { return e.Demographics.DiversityIndex }},
	{"population_density", func(e *Entity) float64 { return e.Demographics.PopulationDensity }},
}

var politicalMetrics = []metric{
	{"dem_affiliation_pct", func(e *Entity) float64 { return e.PoliticalProfile.DemAffiliationPct }},
	{"rep_affiliation_pct", func(e *Entity) float64 { return e.PoliticalProfile.RepAffiliationPct }},
	{"independent_pct", func(e *Entity) float64 { return e.PoliticalProfile.IndependentPct }},
	{"liberal_pct", func(e *Entity) float64 { return e.PoliticalProfile.LiberalPct }},
	{"moderate_pct", func(e *Entity) float64 { return e.PoliticalProfile.ModeratePct }},
	{"conservative_pct", func(e *Entity) float64 { return e.PoliticalProfile.ConservativePct }},
	{"partisan_lean", func(e *Entity) float64 { return e.PoliticalProfile.PartisanLean }},
}

var electoralMetrics = []metric{
	{"swing_potential", func(e *Entity) float64 { return e.Electoral.SwingPotential }},
	{"avg_turnout", func(e *Entity) float64 { return e.Electoral.AvgTurnout }},
	{"turnout_dropoff", func(e *Entity) float64 { return e.Electoral.TurnoutDropoff }},
	{"registered_voters", func(e *Entity) float64 { return e.Electoral.RegisteredVoters }},
	{"dem_vote_share", func(e *Entity) float64 { return e.Electoral.DemVoteShare }},
	{"rep_vote_share", func(e *Entity) float64 { return e.Electoral.RepVoteShare }},
}

var targetingMetrics = []metric{
	{"gotv_priority", func(e *Entity) float64 { return e.TargetingScores.GOTVPriority }},
	{"persuasion_opportunity", func(e *Entity) float64 { return e.TargetingScores.PersuasionOpportunity }},
	{"combined_score", func(e *Entity) float64 { return e.TargetingScores.CombinedScore }},
	{"canvassing_efficiency", func(e *Entity) float64 { return e.TargetingScores.CanvassingEfficiency }},
}

// Diff computes per-metric differences for every numeric field of the four
// categories.
func Diff(left, right *Entity) Differences {
	return Differences{
		Demographics:     diffAll(demographicMetrics, left, right),
		PoliticalProfile: diffAll(politicalMetrics, left, right),
		Electoral:        diffAll(electoralMetrics, left, right),
		Targeting:        diffAll(targetingMetrics, left, right),
	}
}

func diffAll(metrics []metric, left, right *Entity) []MetricDiff {
	out := make([]MetricDiff, 0, len(metrics))
	for _, m := range metrics {
		l, r := m.get(left), m.get(right)
		out = append(out, MetricDiff{
			Metric:      m.name,
			Left:        l,
			Right:       r,
			Difference:  l - r,
			PercentDiff: PercentDiff(l, r),
		})
	}
	return out
}

// PercentDiff returns (left-right)/|right|*100, or 0 when right is 0.
func PercentDiff(left, right float64) float64 {
	if right == 0 || math.IsNaN(right) {
		return 0
	}
	return (left - right) / math.Abs(right) * 100
}

// TypeOf classifies a comparison by its entity kinds.
func TypeOf(left, right *Entity) Type {
	switch {
	case left.Type == EntityPrecinct && right.Type == EntityPrecinct:
		return PrecinctToPrecinct
	case left.Type == EntityJurisdiction && right.Type == EntityJurisdiction:
		return JurisdictionToJurisdiction
	default:
		return CrossBoundary
	}
}

//Personal.AI order the ending
