package precinct_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/testutil"
)

func TestNewDataset_IndexesAndOrders(t *testing.T) {
	ds := testutil.SampleDataset()

	recs := ds.Records()
	require.Len(t, recs, 6)
	for i := 1; i < len(recs); i++ {
		assert.Less(t, recs[i-1].ID, recs[i].ID)
	}

	jurs := ds.Jurisdictions()
	require.Len(t, jurs, 4)
	assert.Equal(t, "City of East Lansing", jurs[0].Name)
	assert.Equal(t, "Meridian Township", jurs[len(jurs)-1].Name)
}

func TestNewDataset_CopiesInput(t *testing.T) {
	recs := testutil.SampleRecords()
	ds := precinct.NewDataset(recs, nil)
	recs[0].Name = "mutated"

	r, ok := ds.Precinct(testutil.P1)
	require.True(t, ok)
	assert.Equal(t, "Lansing 1", r.Name)
}

func TestNewDataset_SkipsEmptyAndDuplicateIDs(t *testing.T) {
	ds := precinct.NewDataset([]precinct.Record{
		{ID: "a", Name: "First"},
		{ID: "a", Name: "Second"},
		{ID: "", Name: "Nameless"},
	}, nil)
	assert.Equal(t, 1, ds.Len())
	r, _ := ds.Precinct("a")
	assert.Equal(t, "First", r.Name)
}

func TestNewDataset_SynthesizesJurisdictions(t *testing.T) {
	ds := precinct.NewDataset(testutil.SampleRecords(), nil)

	j, ok := ds.Jurisdiction(testutil.JurisdictionMeridian)
	require.True(t, ok)
	assert.Equal(t, "Meridian Township", j.Name)
	assert.Equal(t, "township", j.Type)
	assert.Len(t, ds.Members(j.ID), 2)
}

func TestDataset_PrecinctLookup(t *testing.T) {
	ds := testutil.SampleDataset()

	t.Run("exact id", func(t *testing.T) {
		r, ok := ds.Precinct(testutil.P3)
		require.True(t, ok)
		assert.Equal(t, testutil.P3, r.ID)
	})
	t.Run("padded id", func(t *testing.T) {
		r, ok := ds.Precinct("  " + testutil.P3 + " ")
		require.True(t, ok)
		assert.Equal(t, testutil.P3, r.ID)
	})
	t.Run("case-insensitive name", func(t *testing.T) {
		r, ok := ds.Precinct("EAST LANSING 2")
		require.True(t, ok)
		assert.Equal(t, testutil.P4, r.ID)
	})
	t.Run("partial name does not match", func(t *testing.T) {
		_, ok := ds.Precinct("East Lansing")
		assert.False(t, ok)
	})
}

func TestDataset_Resolve(t *testing.T) {
	ds := testutil.SampleDataset()
	got := ds.Resolve([]string{testutil.P2, "nope", "lansing 2", testutil.P1})
	require.Len(t, got, 2)
	assert.Equal(t, testutil.P2, got[0].ID)
	assert.Equal(t, testutil.P1, got[1].ID)
	assert.Empty(t, ds.Resolve(nil))
}

func TestDataset_JurisdictionLookup(t *testing.T) {
	ds := testutil.SampleDataset()

	j, ok := ds.Jurisdiction("city of lansing")
	require.True(t, ok)
	assert.Equal(t, testutil.JurisdictionLansing, j.ID)

	_, ok = ds.Jurisdiction("atlantis")
	assert.False(t, ok)
	assert.Empty(t, ds.Members(testutil.JurisdictionGhost))
}

func TestDataset_Samples(t *testing.T) {
	ds := testutil.SampleDataset()
	assert.Len(t, ds.PrecinctSamples(precinct.DefaultSampleSize), precinct.DefaultSampleSize)
	assert.Equal(t, []string{"East Lansing 1"}, ds.PrecinctSamples(1))
	assert.Len(t, ds.JurisdictionSamples(10), 4)
}

func TestRecord_HistoryDescending(t *testing.T) {
	ds := testutil.SampleDataset()
	r, _ := ds.Precinct(testutil.P1)

	h := r.HistoryDescending()
	require.Len(t, h, 2)
	assert.Equal(t, 2024, h[0].Year)
	assert.Equal(t, 2022, h[1].Year)

	latest, ok := r.LatestElection()
	require.True(t, ok)
	assert.Equal(t, 68.0, latest.DemPct)

	_, ok = (&precinct.Record{}).LatestElection()
	assert.False(t, ok)
}

func TestSegmentDefinition_PrecinctIDs(t *testing.T) {
	seg := precinct.SegmentDefinition{Results: []precinct.SegmentResult{{PrecinctID: "b"}, {PrecinctID: "a"}}}
	assert.Equal(t, []string{"b", "a"}, seg.PrecinctIDs())
}

//Personal.AI order the ending
