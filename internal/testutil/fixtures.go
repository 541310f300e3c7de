package testutil

import (
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
)

// Fixture identifiers.
const (
	P1 = "ingham-lansing-001"
	P2 = "ingham-lansing-002"
	P3 = "ingham-east-lansing-001"
	P4 = "ingham-east-lansing-002"
	P5 = "ingham-meridian-001"
	P6 = "ingham-meridian-002"

	JurisdictionLansing     = "lansing"
	JurisdictionEastLansing = "east-lansing"
	JurisdictionMeridian    = "meridian"
	JurisdictionGhost       = "ghost"
)

// SampleJurisdictions returns the fixture jurisdictions, including one with
// no member precincts.
func SampleJurisdictions() []precinct.Jurisdiction {
	return []precinct.Jurisdiction{
		{ID: JurisdictionLansing, Name: "City of Lansing", Type: "city"},
		{ID: JurisdictionEastLansing, Name: "City of East Lansing", Type: "city"},
		{ID: JurisdictionMeridian, Name: "Meridian Township", Type: "township"},
		{ID: JurisdictionGhost, Name: "Ghost Township", Type: "township"},
	}
}

type recordSpec struct {
	id, name, jur, jurName, jurType string
	vap, pop, density, registered *float64
	age, income, college, homeowner, diversity float64
	dem, rep, ind, lib, mod, con float64
	lean, swing, turnout, dropoff float64
	gotv, persuasion, combined float64
	strategy string
	history map[int]precinct.ElectionResult
	engagement *precinct.EngagementMetrics
	tapestry *precinct.TapestryProfile
}

func (s recordSpec) record() precinct.Record {
	return precinct.Record{
		ID:               s.id,
		Name:             s.name,
		JurisdictionID:   s.jur,
		JurisdictionName: s.jurName,
		JurisdictionType: s.jurType,
		Demographics: precinct.Demographics{
			TotalPopulation:       s.pop,
			VotingAgePopulation:   s.vap,
			MedianAge:             s.age,
			MedianHouseholdIncome: s.income,
			CollegePct:            s.college,
			HomeownerPct:          s.homeowner,
			DiversityIndex:        s.diversity,
			PopulationDensity:     s.density,
		},
		Political: precinct.PoliticalAffiliation{
			DemAffiliationPct: s.dem, RepAffiliationPct: s.rep, IndependentPct: s.ind,
			LiberalPct: s.lib, ModeratePct: s.mod, ConservativePct: s.con,
		},
		Electoral: precinct.ElectoralMetrics{
			PartisanLean:     s.lean,
			SwingPotential:   s.swing,
			AvgTurnout:       s.turnout,
			TurnoutDropoff:   s.dropoff,
			RegisteredVoters: s.registered,
		},
		Targeting: precinct.TargetingScores{
			GOTVPriority:          s.gotv,
			PersuasionOpportunity: s.persuasion,
			CombinedScore:         s.combined,
			Strategy:              s.strategy,
		},
		ElectionHistory: s.history,
		Engagement:      s.engagement,
		Tapestry:        s.tapestry,
	}
}

func result(dem, rep, turnout, ballots float64, registered *float64) precinct.ElectionResult {
	return precinct.ElectionResult{
		DemPct: dem, RepPct: rep, Margin: dem - rep,
		Turnout: turnout, BallotsCast: ballots, RegisteredVoters: registered,
	}
}

var f = precinct.Float

// SampleRecords returns six precincts across three jurisdictions.  Combined
// scores of P1..P5 are 65, 57, 62, 60 and 48; P6 has no voting-age population,
// engagement or tapestry data.  Every raw strategy label agrees with
// scoring.RecommendedStrategy for the record's GOTV and persuasion scores.
func SampleRecords() []precinct.Record {
	specs := []recordSpec{
		{
			id: P1, name: "Lansing 1", jur: JurisdictionLansing, jurName: "City of Lansing", jurType: "city",
			vap: f(5000), pop: f(6500), density: f(4200), registered: f(4200),
			age: 28, income: 42000, college: 30, homeowner: 40, diversity: 62,
			dem: 55, rep: 25, ind: 20, lib: 40, mod: 35, con: 25,
			lean: -18, swing: 35, turnout: 55, dropoff: 12,
			gotv: 80, persuasion: 45, combined: 65, strategy: "GOTV",
			history: map[int]precinct.ElectionResult{
				2024: result(68, 30, 58, 2400, f(4200)),
				2022: result(70, 28, 45, 1850, f(4100)),
			},
			engagement: &precinct.EngagementMetrics{DonorPct: 8, VolunteerPct: 5, SocialMediaPct: 70, NewsInterestPct: 45, CivicIndex: 52},
			tapestry:   &precinct.TapestryProfile{Segment: "Metro Renters", LifeMode: "Uptown Individuals", UrbanizationIndex: 85, AffluenceIndex: 35, FamilyIndex: 30},
		},
		{
			id: P2, name: "Lansing 2", jur: JurisdictionLansing, jurName: "City of Lansing", jurType: "city",
			vap: f(4500), pop: f(5600), density: f(3600), registered: f(3900),
			age: 30, income: 47000, college: 26, homeowner: 48, diversity: 55,
			dem: 50, rep: 30, ind: 20, lib: 36, mod: 38, con: 26,
			lean: -12, swing: 42, turnout: 52, dropoff: 14,
			gotv: 62, persuasion: 55, combined: 57, strategy: "Battleground",
			history: map[int]precinct.ElectionResult{
				2024: result(60, 38, 54, 2100, f(3900)),
				2022: result(62, 36, 42, 1600, f(3800)),
			},
			engagement: &precinct.EngagementMetrics{DonorPct: 7, VolunteerPct: 4, SocialMediaPct: 66, NewsInterestPct: 48, CivicIndex: 50},
			tapestry:   &precinct.TapestryProfile{Segment: "Metro Renters", LifeMode: "Uptown Individuals", UrbanizationIndex: 80, AffluenceIndex: 40, FamilyIndex: 36},
		},
		{
			id: P3, name: "East Lansing 1", jur: JurisdictionEastLansing, jurName: "City of East Lansing", jurType: "city",
			vap: f(6200), pop: f(6800), density: f(5100), registered: f(5400),
			age: 22, income: 31000, college: 68, homeowner: 18, diversity: 58,
			dem: 60, rep: 18, ind: 22, lib: 55, mod: 30, con: 15,
			lean: -24, swing: 28, turnout: 48, dropoff: 25,
			gotv: 72, persuasion: 30, combined: 62, strategy: "",
			history: map[int]precinct.ElectionResult{
				2024: result(72, 25, 50, 2700, f(5400)),
				2022: result(74, 23, 31, 1650, f(5300)),
			},
			engagement: &precinct.EngagementMetrics{DonorPct: 4, VolunteerPct: 9, SocialMediaPct: 88, NewsInterestPct: 40, CivicIndex: 47},
			tapestry:   &precinct.TapestryProfile{Segment: "College Towns", LifeMode: "Scholars and Patriots", UrbanizationIndex: 75, AffluenceIndex: 20, FamilyIndex: 10},
		},
		{
			id: P4, name: "East Lansing 2", jur: JurisdictionEastLansing, jurName: "City of East Lansing", jurType: "city",
			vap: f(3900), pop: f(4700), density: f(2400), registered: f(3500),
			age: 41, income: 78000, college: 64, homeowner: 66, diversity: 40,
			dem: 52, rep: 32, ind: 16, lib: 42, mod: 40, con: 18,
			lean: -8, swing: 48, turnout: 68, dropoff: 8,
			gotv: 45, persuasion: 65, combined: 60, strategy: "persuasion",
			history: map[int]precinct.ElectionResult{
				2024: result(57, 41, 72, 2520, f(3500)),
				2022: result(55, 43, 60, 2040, f(3400)),
			},
			engagement: &precinct.EngagementMetrics{DonorPct: 14, VolunteerPct: 8, SocialMediaPct: 60, NewsInterestPct: 62, CivicIndex: 66},
			tapestry:   &precinct.TapestryProfile{Segment: "Emerald City", LifeMode: "Uptown Individuals", UrbanizationIndex: 60, AffluenceIndex: 70, FamilyIndex: 45},
		},
		{
			id: P5, name: "Meridian 1", jur: JurisdictionMeridian, jurName: "Meridian Township", jurType: "township",
			vap: f(4800), pop: f(6100), density: f(1500), registered: f(4300),
			age: 45, income: 91000, college: 58, homeowner: 78, diversity: 30,
			dem: 44, rep: 40, ind: 16, lib: 30, mod: 44, con: 26,
			lean: 2, swing: 55, turnout: 72, dropoff: 6,
			gotv: 40, persuasion: 44, combined: 48, strategy: "Low Priority",
			history: map[int]precinct.ElectionResult{
				2024: result(50, 48, 75, 3225, f(4300)),
				2022: result(48, 50, 63, 2650, f(4200)),
			},
			engagement: &precinct.EngagementMetrics{DonorPct: 18, VolunteerPct: 6, SocialMediaPct: 55, NewsInterestPct: 70, CivicIndex: 71},
			tapestry:   &precinct.TapestryProfile{Segment: "Savvy Suburbanites", LifeMode: "Affluent Estates", UrbanizationIndex: 40, AffluenceIndex: 82, FamilyIndex: 70},
		},
		{
			id: P6, name: "Meridian 2", jur: JurisdictionMeridian, jurName: "Meridian Township", jurType: "township",
			vap: nil, pop: nil, density: f(600), registered: nil,
			age: 52, income: 88000, college: 50, homeowner: 82, diversity: 22,
			dem: 38, rep: 46, ind: 16, lib: 24, mod: 42, con: 34,
			lean: 9, swing: 40, turnout: 74, dropoff: 5,
			gotv: 25, persuasion: 35, combined: 30,
			history: map[int]precinct.ElectionResult{
				2024: result(45, 53, 76, 1900, nil),
			},
		},
	}

	out := make([]precinct.Record, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.record())
	}
	return out
}

// SampleDataset returns the fixture dataset.
func SampleDataset() *precinct.Dataset {
	return precinct.NewDataset(SampleRecords(), SampleJurisdictions())
}

// TwoPrecinctDataset returns a dataset with one jurisdiction of two precincts
// whose voting-age populations are 5000 and 4500 and median ages 28 and 30.
func TwoPrecinctDataset() *precinct.Dataset {
	recs := SampleRecords()[:2]
	return precinct.NewDataset(recs, SampleJurisdictions()[:1])
}

// SegmentRows returns segment results for the given records.
func SegmentRows(ds *precinct.Dataset, ids ...string) []precinct.SegmentResult {
	out := make([]precinct.SegmentResult, 0, len(ids))
	for _, id := range ids {
		r, ok := ds.Precinct(id)
		if !ok {
			continue
		}
		reg := 0.0
		if r.Electoral.RegisteredVoters != nil {
			reg = *r.Electoral.RegisteredVoters
		}
		out = append(out, precinct.SegmentResult{
			PrecinctID:            r.ID,
			PrecinctName:          r.Name,
			Jurisdiction:          r.JurisdictionName,
			RegisteredVoters:      reg,
			GOTVPriority:          r.Targeting.GOTVPriority,
			PersuasionOpportunity: r.Targeting.PersuasionOpportunity,
			SwingPotential:        r.Electoral.SwingPotential,
			TargetingStrategy:     r.Targeting.Strategy,
			PartisanLean:          r.Electoral.PartisanLean,
		})
	}
	return out
}

//Personal.AI order the ending
