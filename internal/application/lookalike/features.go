// Package lookalike finds precincts that resemble a reference set across
// weighted feature categories using Euclidean, cosine or Mahalanobis distance.
package lookalike

import (
	"math"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
)

// Category is a group of related features scored together.
type Category string

const (
	CategoryDemographic Category = "demographic"
	CategoryPolitical   Category = "political"
	CategoryElectoral   Category = "electoral"
	CategoryTapestry    Category = "tapestry"
	CategoryEngagement  Category = "engagement"
)

// Categories lists every category in scoring order.
func Categories() []Category {
	return []Category{CategoryDemographic, CategoryPolitical, CategoryElectoral, CategoryTapestry, CategoryEngagement}
}

// missing marks a feature value that is absent from the source record.
var missing = math.NaN()

type feature struct {
	name string
	get  func(*precinct.Record) float64
}

func optional(p *float64) float64 {
	if p == nil {
		return missing
	}
	return *p
}

var categoryFeatures = map[Category][]feature{
	CategoryDemographic: {
		{"median_age", func(r *precinct.Record) float64 { return r.Demographics.MedianAge }},
		{"median_household_income", func(r *precinct.Record) float64 { return r.Demographics.MedianHouseholdIncome }},
		{"college_pct", func(r *precinct.Record) float64 { return r.Demographics.CollegePct }},
		{"homeowner_pct", func(r *precinct.Record) float64 { return r.Demographics.HomeownerPct }},
		{"diversity_index", func(r *precinct.Record) float64 { return r.Demographics.DiversityIndex }},
		{"population_density", func(r *precinct.Record) float64 { return optional(r.Demographics.PopulationDensity) }},
	},
	CategoryPolitical: {
		{"dem_affiliation_pct", func(r *precinct.Record) float64 { return r.Political.DemAffiliationPct }},
		{"rep_affiliation_pct", func(r *precinct.Record) float64 { return r.Political.RepAffiliationPct }},
		{"independent_pct", func(r *precinct.Record) float64 { return r.Political.IndependentPct }},
		{"liberal_pct", func(r *precinct.Record) float64 { return r.Political.LiberalPct }},
		{"moderate_pct", func(r *precinct.Record) float64 { return r.Political.ModeratePct }},
		{"conservative_pct", func(r *precinct.Record) float64 { return r.Political.ConservativePct }},
		{"partisan_lean", func(r *precinct.Record) float64 { return r.Electoral.PartisanLean }},
	},
	CategoryElectoral: {
		{"swing_potential", func(r *precinct.Record) float64 { return r.Electoral.SwingPotential }},
		{"avg_turnout", func(r *precinct.Record) float64 { return r.Electoral.AvgTurnout }},
		{"turnout_dropoff", func(r *precinct.Record) float64 { return r.Electoral.TurnoutDropoff }},
		{"latest_dem_share", func(r *precinct.Record) float64 {
			if res, ok := r.LatestElection(); ok {
				return res.DemPct
			}
			return missing
		}},
	},
	CategoryTapestry: {
		{"urbanization_index", func(r *precinct.Record) float64 { return r.Tapestry.UrbanizationIndex }},
		{"affluence_index", func(r *precinct.Record) float64 { return r.Tapestry.AffluenceIndex }},
		{"family_index", func(r *precinct.Record) float64 { return r.Tapestry.FamilyIndex }},
	},
	CategoryEngagement: {
		{"donor_pct", func(r *precinct.Record) float64 { return r.Engagement.DonorPct }},
		{"volunteer_pct", func(r *precinct.Record) float64 { return r.Engagement.VolunteerPct }},
		{"social_media_pct", func(r *precinct.Record) float64 { return r.Engagement.SocialMediaPct }},
		{"news_interest_pct", func(r *precinct.Record) float64 { return r.Engagement.NewsInterestPct }},
		{"civic_index", func(r *precinct.Record) float64 { return r.Engagement.CivicIndex }},
	},
}

// hasCategory reports whether r carries the data a category needs.
func hasCategory(r *precinct.Record, c Category) bool {
	switch c {
	case CategoryTapestry:
		return r.Tapestry != nil
	case CategoryEngagement:
		return r.Engagement != nil
	default:
		return true
	}
}

func extract(r *precinct.Record, c Category) []float64 {
	fs := categoryFeatures[c]
	out := make([]float64, len(fs))
	for i, f := range fs {
		out[i] = f.get(r)
	}
	return out
}

//Personal.AI order the ending
