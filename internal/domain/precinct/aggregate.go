package precinct

// DefaultFallbackWeight is the weight given to a precinct whose voting-age
// population is missing or zero.  Using one constant for every such precinct
// makes a population-less jurisdiction count-weighted instead of dividing by
// zero.
const DefaultFallbackWeight = 1000.0

// Aggregate is the population-weighted combination of a set of precincts.
// TotalPopulation, VotingAgePopulation and RegisteredVoters are sums; every
// other numeric field is a weighted mean.  Optional fields are averaged only
// over the members that carry them and stay nil when none do.
type Aggregate struct {
	Count           int                    `json:"count"`
	TotalWeight     float64                `json:"total_weight"`
	Demographics    Demographics           `json:"demographics"`
	Political       PoliticalAffiliation   `json:"political"`
	Electoral       ElectoralMetrics       `json:"electoral"`
	Targeting       TargetingScores        `json:"targeting"`
	Engagement      *EngagementMetrics     `json:"engagement,omitempty"`
	Tapestry        *TapestryProfile       `json:"tapestry,omitempty"`
	ElectionHistory map[int]ElectionResult `json:"election_history,omitempty"`
}

// HistoryDescending returns the merged election history, most recent first.
func (a *Aggregate) HistoryDescending() []ElectionResult {
	return sortHistory(a.ElectionHistory)
}

// Weight returns the aggregation weight of r: its voting-age population when
// present and positive, else fallback.
func Weight(r *Record, fallback float64) float64 {
	if vap, ok := r.VotingAge(); ok && vap > 0 {
		return vap
	}
	return fallback
}

type wmean struct {
	sum, w float64
}

func (m *wmean) add(v, w float64) {
	m.sum += v * w
	m.w += w
}

func (m *wmean) value() float64 {
	if m.w == 0 {
		return 0
	}
	return m.sum / m.w
}

type optSum struct {
	sum     float64
	present bool
}

func (s *optSum) add(p *float64) {
	if p == nil {
		return
	}
	s.sum += *p
	s.present = true
}

func (s *optSum) ptr() *float64 {
	if !s.present {
		return nil
	}
	return Float(s.sum)
}

// AggregateRecords combines records into one population-weighted Aggregate.
// A non-positive fallback is replaced with DefaultFallbackWeight.
func AggregateRecords(records []*Record, fallback float64) Aggregate {
	if fallback <= 0 {
		fallback = DefaultFallbackWeight
	}
	agg := Aggregate{Count: len(records)}
	if len(records) == 0 {
		return agg
	}

	var (
		totalPop, vap, registered                         optSum
		age, income, college, homeowner, diversity, dense wmean
		dem, rep, ind, lib, mod, con                      wmean
		lean, swing, turnout, dropoff                     wmean
		gotv, persuasion, combined                        wmean
		donor, volunteer, social, news, civic             wmean
		urban, affluence, family                          wmean
		engagementSeen, tapestrySeen                      bool
		segmentWeight                                     = map[string]float64{}
		lifeModeWeight                                    = map[string]float64{}
	)

	for _, r := range records {
		w := Weight(r, fallback)
		agg.TotalWeight += w

		d := r.Demographics
		totalPop.add(d.TotalPopulation)
		vap.add(d.VotingAgePopulation)
		age.add(d.MedianAge, w)
		income.add(d.MedianHouseholdIncome, w)
		college.add(d.CollegePct, w)
		homeowner.add(d.HomeownerPct, w)
		diversity.add(d.DiversityIndex, w)
		if v, ok := r.Density(); ok {
			dense.add(v, w)
		}

		p := r.Political
		dem.add(p.DemAffiliationPct, w)
		rep.add(p.RepAffiliationPct, w)
		ind.add(p.IndependentPct, w)
		lib.add(p.LiberalPct, w)
		mod.add(p.ModeratePct, w)
		con.add(p.ConservativePct, w)

		e := r.Electoral
		lean.add(e.PartisanLean, w)
		swing.add(e.SwingPotential, w)
		turnout.add(e.AvgTurnout, w)
		dropoff.add(e.TurnoutDropoff, w)
		registered.add(e.RegisteredVoters)

		t := r.Targeting
		gotv.add(t.GOTVPriority, w)
		persuasion.add(t.PersuasionOpportunity, w)
		combined.add(t.CombinedScore, w)

		if g := r.Engagement; g != nil {
			engagementSeen = true
			donor.add(g.DonorPct, w)
			volunteer.add(g.VolunteerPct, w)
			social.add(g.SocialMediaPct, w)
			news.add(g.NewsInterestPct, w)
			civic.add(g.CivicIndex, w)
		}
		if tp := r.Tapestry; tp != nil {
			tapestrySeen = true
			urban.add(tp.UrbanizationIndex, w)
			affluence.add(tp.AffluenceIndex, w)
			family.add(tp.FamilyIndex, w)
			if tp.Segment != "" {
				segmentWeight[tp.Segment] += w
			}
			if tp.LifeMode != "" {
				lifeModeWeight[tp.LifeMode] += w
			}
		}
	}

	agg.Demographics = Demographics{
		TotalPopulation:       totalPop.ptr(),
		VotingAgePopulation:   vap.ptr(),
		MedianAge:             age.value(),
		MedianHouseholdIncome: income.value(),
		CollegePct:            college.value(),
		HomeownerPct:          homeowner.value(),
		DiversityIndex:        diversity.value(),
	}
	if dense.w > 0 {
		agg.Demographics.PopulationDensity = Float(dense.value())
	}
	agg.Political = PoliticalAffiliation{
		DemAffiliationPct: dem.value(),
		RepAffiliationPct: rep.value(),
		IndependentPct:    ind.value(),
		LiberalPct:        lib.value(),
		ModeratePct:       mod.value(),
		ConservativePct:   con.value(),
	}
	agg.Electoral = ElectoralMetrics{
		PartisanLean:     lean.value(),
		SwingPotential:   swing.value(),
		AvgTurnout:       turnout.value(),
		TurnoutDropoff:   dropoff.value(),
		RegisteredVoters: registered.ptr(),
	}
	agg.Targeting = TargetingScores{
		GOTVPriority:          gotv.value(),
		PersuasionOpportunity: persuasion.value(),
		CombinedScore:         combined.value(),
	}
	if engagementSeen {
		agg.Engagement = &EngagementMetrics{
			DonorPct:        donor.value(),
			VolunteerPct:    volunteer.value(),
			SocialMediaPct:  social.value(),
			NewsInterestPct: news.value(),
			CivicIndex:      civic.value(),
		}
	}
	if tapestrySeen {
		agg.Tapestry = &TapestryProfile{
			Segment:           heaviest(segmentWeight),
			LifeMode:          heaviest(lifeModeWeight),
			UrbanizationIndex: urban.value(),
			AffluenceIndex:    affluence.value(),
			FamilyIndex:       family.value(),
		}
	}
	agg.ElectionHistory = MergeElectionHistory(records)
	return agg
}

// heaviest returns the key with the largest weight, ties broken by key order.
func heaviest(m map[string]float64) string {
	best, bestW := "", -1.0
	for k, w := range m {
		if w > bestW || (w == bestW && k < best) {
			best, bestW = k, w
		}
	}
	return best
}

type yearTotals struct {
	ballots        float64
	demVotes       float64
	repVotes       float64
	registered     float64
	registeredSeen int
	entries        int
	demPctSum      float64
	repPctSum      float64
	turnoutBallots wmean
	turnoutPlain   wmean
}

// MergeElectionHistory combines per-precinct election history by year.
// Ballots and registered voters are summed; Dem/Rep shares and margin are
// recomputed from summed vote counts rather than by averaging percentages.
// Turnout is ballots over registered voters when every member reports
// registered voters for that year, else the ballot-weighted mean turnout.
func MergeElectionHistory(records []*Record) map[int]ElectionResult {
	years := map[int]*yearTotals{}
	for _, r := range records {
		for year, res := range r.ElectionHistory {
			t, ok := years[year]
			if !ok {
				t = &yearTotals{}
				years[year] = t
			}
			t.entries++
			t.ballots += res.BallotsCast
			t.demVotes += res.DemPct / 100 * res.BallotsCast
			t.repVotes += res.RepPct / 100 * res.BallotsCast
			t.demPctSum += res.DemPct
			t.repPctSum += res.RepPct
			t.turnoutBallots.add(res.Turnout, res.BallotsCast)
			t.turnoutPlain.add(res.Turnout, 1)
			if res.RegisteredVoters != nil {
				t.registered += *res.RegisteredVoters
				t.registeredSeen++
			}
		}
	}
	if len(years) == 0 {
		return nil
	}

	out := make(map[int]ElectionResult, len(years))
	for year, t := range years {
		res := ElectionResult{Year: year, BallotsCast: t.ballots}
		if t.ballots > 0 {
			res.DemPct = t.demVotes / t.ballots * 100
			res.RepPct = t.repVotes / t.ballots * 100
			res.Turnout = t.turnoutBallots.value()
		} else {
			res.DemPct = t.demPctSum / float64(t.entries)
			res.RepPct = t.repPctSum / float64(t.entries)
			res.Turnout = t.turnoutPlain.value()
		}
		if t.registeredSeen > 0 {
			res.RegisteredVoters = Float(t.registered)
		}
		if t.registeredSeen == t.entries && t.registered > 0 {
			res.Turnout = t.ballots / t.registered * 100
		}
		res.Margin = res.DemPct - res.RepPct
		out[year] = res
	}
	return out
}

//Personal.AI order the ending
