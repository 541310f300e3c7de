// Package canvassing sizes door-to-door canvassing universes from precinct
// selections or segment results and derives staffing plans, turf groupings,
// and heuristic walk routes from them.
package canvassing

import (
	"time"

	"github.com/turtacn/precinct-analytics/internal/domain/scoring"
)

// Fixed sizing constants.
const (
	// ResidentialCoverage is the share of the voting-age population assumed
	// to live behind a knockable door.
	ResidentialCoverage = 0.80

	DefaultDoorsPerTurf = 50
	DefaultDoorsPerHour = 40
	DefaultContactRate  = 0.35

	// ShiftHours is the shift length behind VolunteersNeeded.
	ShiftHours = 4

	// SummaryTopN is the number of entries exposed by GenerateSummary.
	SummaryTopN = 10
)

// Config tunes universe sizing.  Zero fields take the package defaults.
type Config struct {
	TargetDoorsPerTurf int     `json:"target_doors_per_turf" yaml:"target_doors_per_turf" mapstructure:"target_doors_per_turf"`
	TargetDoorsPerHour int     `json:"target_doors_per_hour" yaml:"target_doors_per_hour" mapstructure:"target_doors_per_hour"`
	TargetContactRate  float64 `json:"target_contact_rate" yaml:"target_contact_rate" mapstructure:"target_contact_rate"`
}

// DefaultConfig returns the package defaults.
func DefaultConfig() Config {
	return Config{
		TargetDoorsPerTurf: DefaultDoorsPerTurf,
		TargetDoorsPerHour: DefaultDoorsPerHour,
		TargetContactRate:  DefaultContactRate,
	}
}

// withDefaults fills zero or invalid fields from base.
func (c Config) withDefaults(base Config) Config {
	if c.TargetDoorsPerTurf <= 0 {
		c.TargetDoorsPerTurf = base.TargetDoorsPerTurf
	}
	if c.TargetDoorsPerHour <= 0 {
		c.TargetDoorsPerHour = base.TargetDoorsPerHour
	}
	if c.TargetContactRate <= 0 || c.TargetContactRate > 1 {
		c.TargetContactRate = base.TargetContactRate
	}
	return c
}

// SortKey selects the metric a universe is ranked by.
type SortKey string

const (
	SortByGOTV       SortKey = "gotv"
	SortByPersuasion SortKey = "persuasion"
	SortByDoors      SortKey = "doors"
	SortBySwing      SortKey = "swing"
	SortByCombined   SortKey = "combined"
)

// ParseSortKey maps a raw key onto a SortKey; anything unrecognized is
// SortByCombined.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortByGOTV, SortByPersuasion, SortByDoors, SortBySwing:
		return SortKey(raw)
	default:
		return SortByCombined
	}
}

// Entry is one precinct inside a universe.
type Entry struct {
	PrecinctID            string               `json:"precinct_id"`
	PrecinctName          string               `json:"precinct_name"`
	Jurisdiction          string               `json:"jurisdiction"`
	PriorityRank          int                  `json:"priority_rank"`
	EstimatedDoors        int                  `json:"estimated_doors"`
	EstimatedTurfs        int                  `json:"estimated_turfs"`
	EstimatedHours        int                  `json:"estimated_hours"`
	GOTVPriority          float64              `json:"gotv_priority"`
	PersuasionOpportunity float64              `json:"persuasion_opportunity"`
	SwingPotential        float64              `json:"swing_potential"`
	CombinedScore         float64              `json:"combined_score"`
	TargetingStrategy     scoring.Strategy     `json:"targeting_strategy"`
	PopulationDensity     float64              `json:"population_density"`
	DensityClass          scoring.DensityClass `json:"density_class"`
}

func (e *Entry) metric(key SortKey) float64 {
	switch key {
	case SortByGOTV:
		return e.GOTVPriority
	case SortByPersuasion:
		return e.PersuasionOpportunity
	case SortByDoors:
		return float64(e.EstimatedDoors)
	case SortBySwing:
		return e.SwingPotential
	default:
		return e.CombinedScore
	}
}

// Universe is a sized, ranked canvassing universe.  SortUniverse mutates it in
// place; callers serialize access to a single universe.
type Universe struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	SegmentID           string    `json:"segment_id,omitempty"`
	Precincts           []Entry   `json:"precincts"`
	TotalPrecincts      int       `json:"total_precincts"`
	TotalEstimatedDoors int       `json:"total_estimated_doors"`
	EstimatedTurfs      int       `json:"estimated_turfs"`
	EstimatedHours      int       `json:"estimated_hours"`
	VolunteersNeeded    int       `json:"volunteers_needed"`
	Config              Config    `json:"config"`
	SortKey             SortKey   `json:"sort_key"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Clone returns a deep copy of u.
func (u *Universe) Clone() *Universe {
	if u == nil {
		return nil
	}
	c := *u
	c.Precincts = append([]Entry(nil), u.Precincts...)
	return &c
}

//Personal.AI order the ending
