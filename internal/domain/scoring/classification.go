// Package scoring holds the pure classification and derived-score functions
// shared by entity building, canvassing and reporting.  Every function here is
// stateless and safe for concurrent use.
package scoring

import (
	"math"
)

// ---------------------------------------------------------------------------
// Competitiveness
// ---------------------------------------------------------------------------

// Competitiveness is the seven-bucket partisan-lean ladder.
type Competitiveness string

const (
	SafeD   Competitiveness = "safe_d"
	LikelyD Competitiveness = "likely_d"
	LeanD   Competitiveness = "lean_d"
	Tossup  Competitiveness = "tossup"
	LeanR   Competitiveness = "lean_r"
	LikelyR Competitiveness = "likely_r"
	SafeR   Competitiveness = "safe_r"
)

// Lean thresholds in points of partisan lean.
const (
	TossupThreshold = 5.0
	LeanThreshold   = 10.0
	LikelyThreshold = 20.0
)

// Label returns the display label, e.g. "Safe D".
func (c Competitiveness) Label() string {
	switch c {
	case SafeD:
		return "Safe D"
	case LikelyD:
		return "Likely D"
	case LeanD:
		return "Lean D"
	case Tossup:
		return "Tossup"
	case LeanR:
		return "Lean R"
	case LikelyR:
		return "Likely R"
	case SafeR:
		return "Safe R"
	default:
		return "Unknown"
	}
}

// ClassifyCompetitiveness buckets a partisan lean (negative = Democratic).
func ClassifyCompetitiveness(lean float64) Competitiveness {
	if math.IsNaN(lean) {
		return Tossup
	}
	abs := math.Abs(lean)
	dem := lean < 0
	switch {
	case abs < TossupThreshold:
		return Tossup
	case abs < LeanThreshold:
		if dem {
			return LeanD
		}
		return LeanR
	case abs < LikelyThreshold:
		if dem {
			return LikelyD
		}
		return LikelyR
	default:
		if dem {
			return SafeD
		}
		return SafeR
	}
}

// DominantParty returns "D" for a negative lean and "R" otherwise.
func DominantParty(lean float64) string {
	if lean < 0 {
		return "D"
	}
	return "R"
}

// ---------------------------------------------------------------------------
// Volatility
// ---------------------------------------------------------------------------

// Volatility is the four-bucket swing-potential ladder.
type Volatility string

const (
	Stable         Volatility = "stable"
	Moderate       Volatility = "moderate"
	Swing          Volatility = "swing"
	HighlyVolatile Volatility = "highly_volatile"
)

// Label returns the display label.
func (v Volatility) Label() string {
	switch v {
	case Stable:
		return "Stable"
	case Moderate:
		return "Moderate"
	case Swing:
		return "Swing"
	case HighlyVolatile:
		return "Highly Volatile"
	default:
		return "Unknown"
	}
}

// ClassifyVolatility buckets a 0–100 swing potential.
func ClassifyVolatility(swing float64) Volatility {
	switch {
	case swing < 20:
		return Stable
	case swing < 40:
		return Moderate
	case swing < 60:
		return Swing
	default:
		return HighlyVolatile
	}
}

// ---------------------------------------------------------------------------
// Targeting priority
// ---------------------------------------------------------------------------

// Priority is the targeting-priority tier.
type Priority string

const (
	PriorityHigh       Priority = "High"
	PriorityMediumHigh Priority = "Medium-High"
	PriorityMedium     Priority = "Medium"
	PriorityLow        Priority = "Low"
)

// CalculateTargetingPriority evaluates the priority cascade in fixed order;
// the first matching rule wins.  turnout is part of the signature for callers
// that carry it but does not influence the result.
func CalculateTargetingPriority(lean, swing, turnout float64) Priority {
	_ = turnout
	abs := math.Abs(lean)
	switch {
	case abs < 10 && swing > 40:
		return PriorityHigh
	case abs < 15 || swing > 50:
		return PriorityMediumHigh
	case abs < 25 && swing > 20:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

//Personal.AI order the ending
