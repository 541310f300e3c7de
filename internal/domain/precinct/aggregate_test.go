package precinct_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/testutil"
)

func TestAggregateRecords_WeightedMean(t *testing.T) {
	ds := testutil.TwoPrecinctDataset()
	agg := precinct.AggregateRecords(ds.Records(), precinct.DefaultFallbackWeight)

	want := (5000*28.0 + 4500*30.0) / 9500
	assert.InDelta(t, want, agg.Demographics.MedianAge, 1e-9)
	assert.Greater(t, agg.Demographics.MedianAge, 28.0)
	assert.Less(t, agg.Demographics.MedianAge, 29.0)
	assert.Equal(t, 2, agg.Count)
	assert.Equal(t, 9500.0, agg.TotalWeight)
}

func TestAggregateRecords_Sums(t *testing.T) {
	ds := testutil.TwoPrecinctDataset()
	agg := precinct.AggregateRecords(ds.Records(), 0)

	require.NotNil(t, agg.Demographics.TotalPopulation)
	assert.Equal(t, 12100.0, *agg.Demographics.TotalPopulation)
	require.NotNil(t, agg.Demographics.VotingAgePopulation)
	assert.Equal(t, 9500.0, *agg.Demographics.VotingAgePopulation)
	require.NotNil(t, agg.Electoral.RegisteredVoters)
	assert.Equal(t, 8100.0, *agg.Electoral.RegisteredVoters)
}

func TestAggregateRecords_FallbackWeight(t *testing.T) {
	recs := []precinct.Record{
		{ID: "a", Demographics: precinct.Demographics{MedianAge: 20}},
		{ID: "b", Demographics: precinct.Demographics{MedianAge: 40, VotingAgePopulation: precinct.Float(0)}},
	}
	ds := precinct.NewDataset(recs, nil)
	agg := precinct.AggregateRecords(ds.Records(), precinct.DefaultFallbackWeight)

	assert.InDelta(t, 30.0, agg.Demographics.MedianAge, 1e-9)
	assert.Equal(t, 2000.0, agg.TotalWeight)
	assert.Nil(t, agg.Demographics.TotalPopulation)
	assert.Nil(t, agg.Demographics.PopulationDensity)
}

func TestAggregateRecords_OptionalSections(t *testing.T) {
	ds := testutil.SampleDataset()
	agg := precinct.AggregateRecords(ds.Members(testutil.JurisdictionMeridian), precinct.DefaultFallbackWeight)

	require.NotNil(t, agg.Engagement)
	assert.InDelta(t, 18.0, agg.Engagement.DonorPct, 1e-9)
	require.NotNil(t, agg.Tapestry)
	assert.Equal(t, "Savvy Suburbanites", agg.Tapestry.Segment)

	require.NotNil(t, agg.Demographics.PopulationDensity)
	want := (4800*1500.0 + 1000*600.0) / 5800
	assert.InDelta(t, want, *agg.Demographics.PopulationDensity, 1e-9)
}

func TestAggregateRecords_Empty(t *testing.T) {
	agg := precinct.AggregateRecords(nil, 0)
	assert.Equal(t, 0, agg.Count)
	assert.Nil(t, agg.ElectionHistory)
}

func TestMergeElectionHistory_SumsVotes(t *testing.T) {
	ds := testutil.TwoPrecinctDataset()
	merged := precinct.MergeElectionHistory(ds.Records())

	res, ok := merged[2024]
	require.True(t, ok)
	assert.Equal(t, 2024, res.Year)
	assert.Equal(t, 4500.0, res.BallotsCast)

	dem := (0.68*2400 + 0.60*2100) / 4500 * 100
	rep := (0.30*2400 + 0.38*2100) / 4500 * 100
	assert.InDelta(t, dem, res.DemPct, 1e-9)
	assert.InDelta(t, rep, res.RepPct, 1e-9)
	assert.InDelta(t, dem-rep, res.Margin, 1e-9)
	assert.InDelta(t, 4500.0/8100*100, res.Turnout, 1e-9)
}

func TestMergeElectionHistory_PartialRegistration(t *testing.T) {
	ds := testutil.SampleDataset()
	merged := precinct.MergeElectionHistory(ds.Members(testutil.JurisdictionMeridian))

	res := merged[2024]
	assert.Equal(t, 5125.0, res.BallotsCast)
	want := (75*3225.0 + 76*1900.0) / 5125
	assert.InDelta(t, want, res.Turnout, 1e-9)

	agg := precinct.AggregateRecords(ds.Members(testutil.JurisdictionMeridian), 0)
	h := agg.HistoryDescending()
	require.Len(t, h, 2)
	assert.Equal(t, 2024, h[0].Year)
}

func TestWeight(t *testing.T) {
	r := &precinct.Record{}
	assert.Equal(t, 7.0, precinct.Weight(r, 7))
	r.Demographics.VotingAgePopulation = precinct.Float(12)
	assert.Equal(t, 12.0, precinct.Weight(r, 7))
}

//Personal.AI order the ending
