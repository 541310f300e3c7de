package scoring

import (
	"math"
	"strings"
)

// Strategy is the canonical targeting-strategy label.  Every emitted strategy
// uses one of these four values.
type Strategy string

const (
	StrategyGOTV         Strategy = "gotv"
	StrategyPersuasion   Strategy = "persuasion"
	StrategyBattleground Strategy = "battleground"
	StrategyLowPriority  Strategy = "low_priority"
)

// Strategy thresholds on 0–100 scores.
const (
	ElevatedScore    = 50.0
	BattlegroundBand = 15.0
)

// AllStrategies returns the canonical labels in histogram order.
func AllStrategies() []Strategy {
	return []Strategy{StrategyGOTV, StrategyPersuasion, StrategyBattleground, StrategyLowPriority}
}

// Label returns the display label.
func (s Strategy) Label() string {
	switch s {
	case StrategyGOTV:
		return "GOTV"
	case StrategyPersuasion:
		return "Persuasion"
	case StrategyBattleground:
		return "Battleground"
	case StrategyLowPriority:
		return "Low Priority"
	default:
		return "Unknown"
	}
}

// RecommendedStrategy derives a strategy from GOTV priority and persuasion
// opportunity.  Rules are evaluated in order:
//
//  1. both >= 50 and within 15 points: battleground
//  2. gotv >= 50 and gotv >= persuasion: gotv
//  3. persuasion >= 50: persuasion
//  4. otherwise low_priority
func RecommendedStrategy(gotv, persuasion float64) Strategy {
	switch {
	case gotv >= ElevatedScore && persuasion >= ElevatedScore && math.Abs(gotv-persuasion) < BattlegroundBand:
		return StrategyBattleground
	case gotv >= ElevatedScore && gotv >= persuasion:
		return StrategyGOTV
	case persuasion >= ElevatedScore:
		return StrategyPersuasion
	default:
		return StrategyLowPriority
	}
}

// NormalizeStrategy maps a raw provider label in any casing or spacing onto
// the canonical set.  ok is false for empty or unrecognized labels.
func NormalizeStrategy(raw string) (Strategy, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "gotv", "getoutthevote", "mobilization":
		return StrategyGOTV, true
	case "persuasion", "persuade":
		return StrategyPersuasion, true
	case "battleground", "both":
		return StrategyBattleground, true
	case "lowpriority", "low", "maintenance":
		return StrategyLowPriority, true
	default:
		return "", false
	}
}

// ResolveStrategy returns the normalized raw label when it is recognized and
// otherwise derives one with RecommendedStrategy.
func ResolveStrategy(raw string, gotv, persuasion float64) Strategy {
	if s, ok := NormalizeStrategy(raw); ok {
		return s
	}
	return RecommendedStrategy(gotv, persuasion)
}

//Personal.AI order the ending
