// Package comparison builds normalized comparison entities from precinct and
// jurisdiction records and diffs two entities metric by metric.
package comparison

import (
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/domain/scoring"
)

// EntityType distinguishes precinct entities from aggregated jurisdictions.
type EntityType string

const (
	EntityPrecinct     EntityType = "precinct"
	EntityJurisdiction EntityType = "jurisdiction"
)

// Demographics is the entity-level demographic block.  Absent optional source
// fields are reported as zero.
type Demographics struct {
	TotalPopulation       float64              `json:"total_population"`
	VotingAgePopulation   float64              `json:"voting_age_population"`
	MedianAge             float64              `json:"median_age"`
	MedianHouseholdIncome float64              `json:"median_household_income"`
	CollegePct            float64              `json:"college_pct"`
	HomeownerPct          float64              `json:"homeowner_pct"`
	DiversityIndex        float64              `json:"diversity_index"`
	PopulationDensity     float64              `json:"population_density"`
	DensityClass          scoring.DensityClass `json:"density_class"`
}

// PoliticalProfile is the entity-level affiliation block.
type PoliticalProfile struct {
	DemAffiliationPct float64                 `json:"dem_affiliation_pct"`
	RepAffiliationPct float64                 `json:"rep_affiliation_pct"`
	IndependentPct    float64                 `json:"independent_pct"`
	LiberalPct        float64                 `json:"liberal_pct"`
	ModeratePct       float64                 `json:"moderate_pct"`
	ConservativePct   float64                 `json:"conservative_pct"`
	PartisanLean      float64                 `json:"partisan_lean"`
	DominantParty     string                  `json:"dominant_party"`
	Competitiveness   scoring.Competitiveness `json:"competitiveness"`
}

// Electoral is the entity-level electoral block.  LastElectionYear and the
// vote shares come from the most recent election-history entry and are zero
// when there is no history.
type Electoral struct {
	SwingPotential    float64            `json:"swing_potential"`
	Volatility        scoring.Volatility `json:"volatility"`
	AvgTurnout        float64            `json:"avg_turnout"`
	TurnoutDropoff    float64            `json:"turnout_dropoff"`
	RegisteredVoters  float64            `json:"registered_voters"`
	LastElectionYear  int                `json:"last_election_year"`
	DemVoteShare      float64            `json:"dem_vote_share"`
	RepVoteShare      float64            `json:"rep_vote_share"`
	TargetingPriority scoring.Priority   `json:"targeting_priority"`
}

// TargetingScores is the entity-level targeting block.
type TargetingScores struct {
	GOTVPriority          float64          `json:"gotv_priority"`
	PersuasionOpportunity float64          `json:"persuasion_opportunity"`
	CombinedScore         float64          `json:"combined_score"`
	CanvassingEfficiency  float64          `json:"canvassing_efficiency"`
	RecommendedStrategy   scoring.Strategy `json:"recommended_strategy"`
}

// JurisdictionRef is a lookup-only back-reference from a precinct entity.
type JurisdictionRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Entity is the normalized, engine-owned view of a precinct or jurisdiction.
// It carries no timestamps so building the same entity twice yields equal
// values.
type Entity struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Type               EntityType                `json:"type"`
	PrecinctCount      int                       `json:"precinct_count"`
	Demographics       Demographics              `json:"demographics"`
	PoliticalProfile   PoliticalProfile          `json:"political_profile"`
	Electoral          Electoral                 `json:"electoral"`
	TargetingScores    TargetingScores           `json:"targeting_scores"`
	ElectionHistory    []precinct.ElectionResult `json:"election_history"`
	ParentJurisdiction *JurisdictionRef          `json:"parent_jurisdiction,omitempty"`
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func demographicsOf(d precinct.Demographics) Demographics {
	density := value(d.PopulationDensity)
	return Demographics{
		TotalPopulation:       value(d.TotalPopulation),
		VotingAgePopulation:   value(d.VotingAgePopulation),
		MedianAge:             d.MedianAge,
		MedianHouseholdIncome: d.MedianHouseholdIncome,
		CollegePct:            d.CollegePct,
		HomeownerPct:          d.HomeownerPct,
		DiversityIndex:        d.DiversityIndex,
		PopulationDensity:     density,
		DensityClass:          scoring.ClassifyDensity(density),
	}
}

func politicalOf(p precinct.PoliticalAffiliation, lean float64) PoliticalProfile {
	return PoliticalProfile{
		DemAffiliationPct: p.DemAffiliationPct,
		RepAffiliationPct: p.RepAffiliationPct,
		IndependentPct:    p.IndependentPct,
		LiberalPct:        p.LiberalPct,
		ModeratePct:       p.ModeratePct,
		ConservativePct:   p.ConservativePct,
		PartisanLean:      lean,
		DominantParty:     scoring.DominantParty(lean),
		Competitiveness:   scoring.ClassifyCompetitiveness(lean),
	}
}

func electoralOf(e precinct.ElectoralMetrics, history []precinct.ElectionResult) Electoral {
	out := Electoral{
		SwingPotential:    e.SwingPotential,
		Volatility:        scoring.ClassifyVolatility(e.SwingPotential),
		AvgTurnout:        e.AvgTurnout,
		TurnoutDropoff:    e.TurnoutDropoff,
		RegisteredVoters:  value(e.RegisteredVoters),
		TargetingPriority: scoring.CalculateTargetingPriority(e.PartisanLean, e.SwingPotential, e.AvgTurnout),
	}
	if len(history) > 0 {
		out.LastElectionYear = history[0].Year
		out.DemVoteShare = history[0].DemPct
		out.RepVoteShare = history[0].RepPct
	}
	return out
}

func targetingOf(t precinct.TargetingScores, strategy scoring.Strategy, class scoring.DensityClass) TargetingScores {
	return TargetingScores{
		GOTVPriority:          t.GOTVPriority,
		PersuasionOpportunity: t.PersuasionOpportunity,
		CombinedScore:         t.CombinedScore,
		CanvassingEfficiency:  scoring.CanvassingEfficiency(t.CombinedScore, class),
		RecommendedStrategy:   strategy,
	}
}

//Personal.AI order the ending
