// Package precinct defines the source-of-truth precinct record, the immutable
// in-memory dataset the engine is constructed from, and the population-weighted
// aggregation shared by entity building and report generation.
package precinct

import "sort"

// Boundary-type tags accepted by entity lookups.
const (
	BoundaryPrecincts     = "precincts"
	BoundaryJurisdictions = "jurisdictions"
)

// Demographics holds census-style attributes of a precinct.  Pointer fields are
// optional in the source data; aggregation skips members where they are absent.
type Demographics struct {
	TotalPopulation       *float64 `json:"total_population,omitempty"`
	VotingAgePopulation   *float64 `json:"voting_age_population,omitempty"`
	MedianAge             float64  `json:"median_age"`
	MedianHouseholdIncome float64  `json:"median_household_income"`
	CollegePct            float64  `json:"college_pct"`
	HomeownerPct          float64  `json:"homeowner_pct"`
	DiversityIndex        float64  `json:"diversity_index"`
	PopulationDensity     *float64 `json:"population_density,omitempty"`
}

// PoliticalAffiliation holds party and ideology self-identification shares.
type PoliticalAffiliation struct {
	DemAffiliationPct float64 `json:"dem_affiliation_pct"`
	RepAffiliationPct float64 `json:"rep_affiliation_pct"`
	IndependentPct    float64 `json:"independent_pct"`
	LiberalPct        float64 `json:"liberal_pct"`
	ModeratePct       float64 `json:"moderate_pct"`
	ConservativePct   float64 `json:"conservative_pct"`
}

// ElectoralMetrics holds historical electoral behaviour.  PartisanLean is
// negative for Democratic-leaning and positive for Republican-leaning precincts.
type ElectoralMetrics struct {
	PartisanLean     float64  `json:"partisan_lean"`
	SwingPotential   float64  `json:"swing_potential"`
	Competitiveness  string   `json:"competitiveness,omitempty"`
	AvgTurnout       float64  `json:"avg_turnout"`
	TurnoutDropoff   float64  `json:"turnout_dropoff"`
	RegisteredVoters *float64 `json:"registered_voters,omitempty"`
}

// TargetingScores holds precomputed 0–100 targeting scores and the raw strategy
// label as delivered by the data provider.
type TargetingScores struct {
	GOTVPriority          float64 `json:"gotv_priority"`
	PersuasionOpportunity float64 `json:"persuasion_opportunity"`
	CombinedScore         float64 `json:"combined_score"`
	Strategy              string  `json:"strategy,omitempty"`
}

// EngagementMetrics holds civic/media engagement shares (0–100).
type EngagementMetrics struct {
	DonorPct        float64 `json:"donor_pct"`
	VolunteerPct    float64 `json:"volunteer_pct"`
	SocialMediaPct  float64 `json:"social_media_pct"`
	NewsInterestPct float64 `json:"news_interest_pct"`
	CivicIndex      float64 `json:"civic_index"`
}

// TapestryProfile holds lifestyle-segmentation attributes.
type TapestryProfile struct {
	Segment           string  `json:"segment,omitempty"`
	LifeMode          string  `json:"life_mode,omitempty"`
	UrbanizationIndex float64 `json:"urbanization_index"`
	AffluenceIndex    float64 `json:"affluence_index"`
	FamilyIndex       float64 `json:"family_index"`
}

// ElectionResult is one year's outcome for a precinct or aggregate.  Margin is
// Democratic share minus Republican share, in points.
type ElectionResult struct {
	Year             int      `json:"year"`
	DemPct           float64  `json:"dem_pct"`
	RepPct           float64  `json:"rep_pct"`
	Margin           float64  `json:"margin"`
	Turnout          float64  `json:"turnout"`
	BallotsCast      float64  `json:"ballots_cast"`
	RegisteredVoters *float64 `json:"registered_voters,omitempty"`
}

// Record is the immutable source-of-truth unit for one precinct.
type Record struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	JurisdictionID   string                 `json:"jurisdiction_id"`
	JurisdictionName string                 `json:"jurisdiction_name"`
	JurisdictionType string                 `json:"jurisdiction_type"`
	Demographics     Demographics           `json:"demographics"`
	Political        PoliticalAffiliation   `json:"political"`
	Electoral        ElectoralMetrics       `json:"electoral"`
	Targeting        TargetingScores        `json:"targeting"`
	ElectionHistory  map[int]ElectionResult `json:"election_history,omitempty"`
	Engagement       *EngagementMetrics     `json:"engagement,omitempty"`
	Tapestry         *TapestryProfile       `json:"tapestry,omitempty"`
}

// VotingAge returns the voting-age population and whether it is present.
func (r *Record) VotingAge() (float64, bool) {
	return deref(r.Demographics.VotingAgePopulation)
}

// Density returns the population density and whether it is present.
func (r *Record) Density() (float64, bool) {
	return deref(r.Demographics.PopulationDensity)
}

// HistoryDescending returns the election history ordered by year, most recent
// first.  The Year field of each entry is set from its map key.
func (r *Record) HistoryDescending() []ElectionResult {
	return sortHistory(r.ElectionHistory)
}

// LatestElection returns the most recent election result, if any.
func (r *Record) LatestElection() (ElectionResult, bool) {
	h := r.HistoryDescending()
	if len(h) == 0 {
		return ElectionResult{}, false
	}
	return h[0], true
}

// Jurisdiction is a named container of precincts (city, township, county).
type Jurisdiction struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// SegmentResult is one row produced by the segment/filter collaborator.
type SegmentResult struct {
	PrecinctID            string   `json:"precinct_id"`
	PrecinctName          string   `json:"precinct_name"`
	Jurisdiction          string   `json:"jurisdiction"`
	RegisteredVoters      float64  `json:"registered_voters"`
	GOTVPriority          float64  `json:"gotv_priority"`
	PersuasionOpportunity float64  `json:"persuasion_opportunity"`
	SwingPotential        float64  `json:"swing_potential"`
	TargetingStrategy     string   `json:"targeting_strategy"`
	PartisanLean          float64  `json:"partisan_lean"`
	CombinedScore         *float64 `json:"combined_score,omitempty"`
}

// SegmentDefinition is a saved, named segment and its resolved results.
type SegmentDefinition struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Results     []SegmentResult `json:"results"`
}

// PrecinctIDs returns the precinct ids of the segment in result order.
func (s *SegmentDefinition) PrecinctIDs() []string {
	ids := make([]string, 0, len(s.Results))
	for _, r := range s.Results {
		ids = append(ids, r.PrecinctID)
	}
	return ids
}

// Float returns a pointer to v.  It keeps optional-field literals short.
func Float(v float64) *float64 { return &v }

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func sortHistory(m map[int]ElectionResult) []ElectionResult {
	out := make([]ElectionResult, 0, len(m))
	for year, res := range m {
		res.Year = year
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

//Personal.AI order the ending
