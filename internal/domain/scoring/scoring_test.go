package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCompetitiveness(t *testing.T) {
	tests := []struct {
		lean float64
		want Competitiveness
	}{
		{0, Tossup},
		{-4.9, Tossup},
		{4.9, Tossup},
		{-5, LeanD},
		{5, LeanR},
		{-9.99, LeanD},
		{-10, LikelyD},
		{10, LikelyR},
		{-19.9, LikelyD},
		{-20, SafeD},
		{20, SafeR},
		{-45, SafeD},
		{math.NaN(), Tossup},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyCompetitiveness(tt.lean), "lean=%v", tt.lean)
	}
}

func TestCompetitiveness_Label(t *testing.T) {
	assert.Equal(t, "Safe D", SafeD.Label())
	assert.Equal(t, "Tossup", Tossup.Label())
	assert.Equal(t, "Likely R", LikelyR.Label())
	assert.Equal(t, "Unknown", Competitiveness("x").Label())
}

func TestDominantParty(t *testing.T) {
	assert.Equal(t, "D", DominantParty(-0.1))
	assert.Equal(t, "R", DominantParty(0))
	assert.Equal(t, "R", DominantParty(3))
}

func TestClassifyVolatility(t *testing.T) {
	assert.Equal(t, Stable, ClassifyVolatility(0))
	assert.Equal(t, Stable, ClassifyVolatility(19.9))
	assert.Equal(t, Moderate, ClassifyVolatility(20))
	assert.Equal(t, Moderate, ClassifyVolatility(39))
	assert.Equal(t, Swing, ClassifyVolatility(40))
	assert.Equal(t, Swing, ClassifyVolatility(59))
	assert.Equal(t, HighlyVolatile, ClassifyVolatility(60))
	assert.Equal(t, "Highly Volatile", HighlyVolatile.Label())
}

func TestCalculateTargetingPriority_Cascade(t *testing.T) {
	tests := []struct {
		name        string
		lean, swing float64
		want        Priority
	}{
		{"close and volatile", -5, 45, PriorityHigh},
		{"close but stable falls to medium-high", 8, 30, PriorityMediumHigh},
		{"lean under 15", -14, 10, PriorityMediumHigh},
		{"high swing alone", 30, 55, PriorityMediumHigh},
		{"medium", 20, 25, PriorityMedium},
		{"low", 30, 25, PriorityLow},
		{"swing exactly 40 is not high", 0, 40, PriorityMediumHigh},
		{"lean 24 swing 20 is low", 24, 20, PriorityLow},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTargetingPriority(tt.lean, tt.swing, 50))
		})
	}
}

func TestCalculateTargetingPriority_IgnoresTurnout(t *testing.T) {
	assert.Equal(t,
		CalculateTargetingPriority(-5, 45, 10),
		CalculateTargetingPriority(-5, 45, 90))
}

func TestRecommendedStrategy(t *testing.T) {
	tests := []struct {
		gotv, persuasion float64
		want             Strategy
	}{
		{80, 45, StrategyGOTV},
		{62, 55, StrategyBattleground},
		{72, 30, StrategyGOTV},
		{55, 65, StrategyBattleground},
		{50, 70, StrategyPersuasion},
		{40, 58, StrategyPersuasion},
		{25, 35, StrategyLowPriority},
		{50, 50, StrategyBattleground},
		{70, 50, StrategyGOTV},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RecommendedStrategy(tt.gotv, tt.persuasion), "gotv=%v persuasion=%v", tt.gotv, tt.persuasion)
	}
}

func TestNormalizeStrategy(t *testing.T) {
	tests := map[string]Strategy{
		"GOTV":         StrategyGOTV,
		" gotv ":       StrategyGOTV,
		"Persuasion":   StrategyPersuasion,
		"battleground": StrategyBattleground,
		"Low Priority": StrategyLowPriority,
		"low_priority": StrategyLowPriority,
		"LOW-PRIORITY": StrategyLowPriority,
	}
	for raw, want := range tests {
		got, ok := NormalizeStrategy(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := NormalizeStrategy("")
	assert.False(t, ok)
	_, ok = NormalizeStrategy("carpet-bomb")
	assert.False(t, ok)
}

func TestResolveStrategy(t *testing.T) {
	assert.Equal(t, StrategyPersuasion, ResolveStrategy("Persuasion", 90, 10))
	assert.Equal(t, StrategyGOTV, ResolveStrategy("", 90, 10))
	assert.Equal(t, StrategyLowPriority, ResolveStrategy("unknown", 10, 10))
}

func TestStrategyLabels(t *testing.T) {
	assert.Len(t, AllStrategies(), 4)
	assert.Equal(t, "Low Priority", StrategyLowPriority.Label())
	assert.Equal(t, "GOTV", StrategyGOTV.Label())
}

func TestClassifyDensity(t *testing.T) {
	assert.Equal(t, Urban, ClassifyDensity(3000))
	assert.Equal(t, Suburban, ClassifyDensity(2999))
	assert.Equal(t, Suburban, ClassifyDensity(1000))
	assert.Equal(t, Rural, ClassifyDensity(999))
	assert.Equal(t, Rural, ClassifyDensity(0))
}

func TestDoorsPerHourAndHops(t *testing.T) {
	assert.Equal(t, 45.0, DoorsPerHour(Urban))
	assert.Equal(t, 35.0, DoorsPerHour(Suburban))
	assert.Equal(t, 20.0, DoorsPerHour(Rural))
	assert.Equal(t, 0.3, HopDistance(Urban))
	assert.Equal(t, 0.8, HopDistance(Suburban))
	assert.Equal(t, 2.0, HopDistance(Rural))
}

func TestCanvassingEfficiency(t *testing.T) {
	assert.InDelta(t, 65.0, CanvassingEfficiency(65, Urban), 1e-9)
	assert.InDelta(t, 51.0, CanvassingEfficiency(60, Suburban), 1e-9)
	assert.InDelta(t, 30.0, CanvassingEfficiency(50, Rural), 1e-9)
	assert.Equal(t, 100.0, CanvassingEfficiency(150, Urban))
	assert.Equal(t, 0.0, CanvassingEfficiency(-10, Urban))
	assert.Equal(t, 0.0, CanvassingEfficiency(math.NaN(), Urban))
}

//Personal.AI order the ending
