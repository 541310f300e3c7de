package comparison

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/domain/scoring"
	"github.com/turtacn/precinct-analytics/internal/testutil"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, ds *precinct.Dataset) *Service {
	t.Helper()
	svc, err := NewService(ServiceConfig{
		Dataset: ds,
		Logger:  testutil.NewMockLogger(),
		Clock:   func() time.Time { return fixedTime },
	})
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresDataset(t *testing.T) {
	svc, err := NewService(ServiceConfig{})
	assert.Nil(t, svc)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestBuildPrecinctEntity(t *testing.T) {
	svc := newTestService(t, testutil.SampleDataset())

	e, err := svc.BuildPrecinctEntity(testutil.P1)
	require.NoError(t, err)

	assert.Equal(t, EntityPrecinct, e.Type)
	assert.Equal(t, "Lansing 1", e.Name)
	assert.Equal(t, 1, e.PrecinctCount)
	assert.Equal(t, "D", e.PoliticalProfile.DominantParty)
	assert.Equal(t, scoring.LikelyD, e.PoliticalProfile.Competitiveness)
	assert.Equal(t, scoring.Moderate, e.Electoral.Volatility)
	assert.Equal(t, 2024, e.Electoral.LastElectionYear)
	assert.Equal(t, 68.0, e.Electoral.DemVoteShare)
	assert.Equal(t, 30.0, e.Electoral.RepVoteShare)
	assert.Equal(t, scoring.Urban, e.Demographics.DensityClass)
	assert.Equal(t, 65.0, e.TargetingScores.CanvassingEfficiency)
	assert.Equal(t, scoring.StrategyGOTV, e.TargetingScores.RecommendedStrategy)

	require.Len(t, e.ElectionHistory, 2)
	assert.Equal(t, 2024, e.ElectionHistory[0].Year)

	require.NotNil(t, e.ParentJurisdiction)
	assert.Equal(t, testutil.JurisdictionLansing, e.ParentJurisdiction.ID)
	assert.Equal(t, "City of Lansing", e.ParentJurisdiction.Name)
}

func TestBuildPrecinctEntity_ByName(t *testing.T) {
	svc := newTestService(t, testutil.SampleDataset())
	e, err := svc.BuildPrecinctEntity("meridian 1")
	require.NoError(t, err)
	assert.Equal(t, testutil.P5, e.ID)
	assert.Equal(t, scoring.StrategyLowPriority, e.TargetingScores.RecommendedStrategy)
}

func TestBuildPrecinctEntity_StrategyDerivedWhenRawMissing(t *testing.T) {
	svc := newTestService(t, testutil.SampleDataset())
	e, err := svc.BuildPrecinctEntity(testutil.P3)
	require.NoError(t, err)
	assert.Equal(t, scoring.StrategyGOTV, e.TargetingScores.RecommendedStrategy)
}

func TestBuildPrecinctEntity_NotFoundCarriesSamples(t *testing.T) {
	svc := newTestService(t, testutil.SampleDataset())

	_, err := svc.BuildPrecinctEntity("Atlantis 9")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePrecinctNotFound))
	assert.True(t, errors.IsNotFound(err))

	samples := errors.SamplesOf(err)
	assert.Len(t, samples, precinct.DefaultSampleSize)
	assert.Contains(t, err.Error(), samples[0])
}

func TestBuildEntity_Idempotent(t *testing.T) {
	svc := newTestService(t, testutil.SampleDataset())

	a, err := svc.BuildPrecinctEntity(testutil.P2)
	require.NoError(t, err)
	b, err := svc.BuildPrecinctEntity(testutil.P2)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	j1, err := svc.BuildJurisdictionEntity(testutil.JurisdictionEastLansing)
	require.NoError(t, err)
	j2, err := svc.BuildJurisdictionEntity("City of East Lansing")
	require.NoError(t, err)
	assert.Equal(t, j1, j2)
}

func TestBuildJurisdictionEntity_WeightedAverage(t *testing.T) {
	svc := newTestService(t, testutil.TwoPrecinctDataset())

	e, err := svc.BuildJurisdictionEntity(testutil.JurisdictionLansing)
	require.NoError(t, err)

	assert.Equal(t, EntityJurisdiction, e.Type)
	assert.Equal(t, 2, e.PrecinctCount)
	assert.Nil(t, e.ParentJurisdiction)

	want := (5000*28.0 + 4500*30.0) / 9500
	assert.InDelta(t, want, e.Demographics.MedianAge, 1e-9)
	assert.Greater(t, e.Demographics.MedianAge, 28.0)
	assert.Less(t, e.Demographics.MedianAge-28, 30-e.Demographics.MedianAge)

	assert.Equal(t, 12100.0, e.Demographics.TotalPopulation)
	assert.Equal(t, 8100.0, e.Electoral.RegisteredVoters)

	lean := (5000*-18.0 + 4500*-12.0) / 9500
	assert.InDelta(t, lean, e.PoliticalProfile.PartisanLean, 1e-9)
	assert.Equal(t, scoring.ClassifyCompetitiveness(lean), e.PoliticalProfile.Competitiveness)

	gotv := (5000*80.0 + 4500*62.0) / 9500
	persuasion := (5000*45.0 + 4500*55.0) / 9500
	assert.Equal(t, scoring.RecommendedStrategy(gotv, persuasion), e.TargetingScores.RecommendedStrategy)
}

func TestBuildJurisdictionEntity_Errors(t *testing.T) {
	svc := newTestService(t, testutil.SampleDataset())

	_, err := svc.BuildJurisdictionEntity("Atlantis")
	assert.True(t, errors.IsCode(err, errors.CodeJurisdictionNotFound))
	assert.NotEmpty(t, errors.SamplesOf(err))

	_, err = svc.BuildJurisdictionEntity(testutil.JurisdictionGhost)
	assert.True(t, errors.IsCode(err, errors.CodeEmptyJurisdiction))
	assert.Contains(t, err.Error(), "No precincts found")
}

func TestBuildEntityByType(t *testing.T) {
	svc := newTestService(t, testutil.SampleDataset())

	e, err := svc.BuildEntityByType(testutil.P4, "precincts")
	require.NoError(t, err)
	assert.Equal(t, EntityPrecinct, e.Type)

	e, err = svc.BuildEntityByType(testutil.JurisdictionMeridian, "Jurisdictions")
	require.NoError(t, err)
	assert.Equal(t, EntityJurisdiction, e.Type)

	_, err = svc.BuildEntityByType(testutil.P4, "counties")
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedBoundaryType))
}

func TestCompare_TypesAndTimestamp(t *testing.T) {
	svc := newTestService(t, testutil.SampleDataset())

	p1, _ := svc.BuildPrecinctEntity(testutil.P1)
	p2, _ := svc.BuildPrecinctEntity(testutil.P2)
	j1, _ := svc.BuildJurisdictionEntity(testutil.JurisdictionLansing)
	j2, _ := svc.BuildJurisdictionEntity(testutil.JurisdictionMeridian)

	assert.Equal(t, PrecinctToPrecinct, svc.Compare(p1, p2).ComparisonType)
	assert.Equal(t, JurisdictionToJurisdiction, svc.Compare(j1, j2).ComparisonType)
	assert.Equal(t, CrossBoundary, svc.Compare(p1, j2).ComparisonType)
	assert.Equal(t, CrossBoundary, svc.Compare(j1, p2).ComparisonType)

	res := svc.Compare(p1, p2)
	assert.Equal(t, fixedTime, res.CreatedAt)
	assert.Same(t, p1, res.Left)
	assert.Same(t, p2, res.Right)
}

func TestCompare_Values(t *testing.T) {
	svc := newTestService(t, testutil.SampleDataset())
	p1, _ := svc.BuildPrecinctEntity(testutil.P1)
	p2, _ := svc.BuildPrecinctEntity(testutil.P2)

	res := svc.Compare(p1, p2)
	var age MetricDiff
	for _, d := range res.Differences.Demographics {
		if d.Metric == "median_age" {
			age = d
		}
	}
	assert.Equal(t, 28.0, age.Left)
	assert.Equal(t, 30.0, age.Right)
	assert.Equal(t, -2.0, age.Difference)
	assert.InDelta(t, -2.0/30*100, age.PercentDiff, 1e-9)

	assert.Len(t, res.Differences.Demographics, len(demographicMetrics))
	assert.Len(t, res.Differences.PoliticalProfile, len(politicalMetrics))
	assert.Len(t, res.Differences.Electoral, len(electoralMetrics))
	assert.Len(t, res.Differences.Targeting, len(targetingMetrics))
}

func TestCompare_Symmetry(t *testing.T) {
	svc := newTestService(t, testutil.SampleDataset())
	a, _ := svc.BuildPrecinctEntity(testutil.P3)
	b, _ := svc.BuildJurisdictionEntity(testutil.JurisdictionMeridian)

	ab := svc.Compare(a, b).Differences
	ba := svc.Compare(b, a).Differences

	pairs := [][2][]MetricDiff{
		{ab.Demographics, ba.Demographics},
		{ab.PoliticalProfile, ba.PoliticalProfile},
		{ab.Electoral, ba.Electoral},
		{ab.Targeting, ba.Targeting},
	}
	for _, p := range pairs {
		require.Equal(t, len(p[0]), len(p[1]))
		for i := range p[0] {
			assert.Equal(t, p[0][i].Metric, p[1][i].Metric)
			assert.InDelta(t, p[0][i].Difference, -p[1][i].Difference, 1e-9, p[0][i].Metric)
		}
	}
}

func TestCompare_DoesNotMutateInputs(t *testing.T) {
	svc := newTestService(t, testutil.SampleDataset())
	a, _ := svc.BuildPrecinctEntity(testutil.P1)
	b, _ := svc.BuildPrecinctEntity(testutil.P5)
	aCopy, bCopy := *a, *b

	svc.Compare(a, b)
	assert.Equal(t, aCopy, *a)
	assert.Equal(t, bCopy, *b)
}

func TestPercentDiff(t *testing.T) {
	assert.Equal(t, 0.0, PercentDiff(10, 0))
	assert.Equal(t, 100.0, PercentDiff(20, 10))
	assert.Equal(t, 200.0, PercentDiff(10, -10))
}

func TestCompareByType(t *testing.T) {
	svc := newTestService(t, testutil.SampleDataset())

	res, err := svc.CompareByType(testutil.P1, "precincts", testutil.JurisdictionLansing, "jurisdictions")
	require.NoError(t, err)
	assert.Equal(t, CrossBoundary, res.ComparisonType)

	_, err = svc.CompareByType("nope", "precincts", testutil.P1, "precincts")
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.CompareByType(testutil.P1, "precincts", testutil.P2, "wards")
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedBoundaryType))
}

//Personal.AI order the ending
