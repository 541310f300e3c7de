package scoring

import "math"

// DensityClass buckets population density for canvassing estimates.
type DensityClass string

const (
	Urban    DensityClass = "urban"
	Suburban DensityClass = "suburban"
	Rural    DensityClass = "rural"
)

// Density thresholds in people per square mile.
const (
	UrbanDensity    = 3000.0
	SuburbanDensity = 1000.0
)

// ClassifyDensity buckets a population density.
func ClassifyDensity(density float64) DensityClass {
	switch {
	case density >= UrbanDensity:
		return Urban
	case density >= SuburbanDensity:
		return Suburban
	default:
		return Rural
	}
}

// DoorsPerHour is the expected canvassing pace for a density class.
func DoorsPerHour(class DensityClass) float64 {
	switch class {
	case Urban:
		return 45
	case Suburban:
		return 35
	default:
		return 20
	}
}

// HopDistance is the heuristic walking/driving distance in miles between two
// adjacent precincts of a density class.
func HopDistance(class DensityClass) float64 {
	switch class {
	case Urban:
		return 0.3
	case Suburban:
		return 0.8
	default:
		return 2.0
	}
}

func efficiencyMultiplier(class DensityClass) float64 {
	switch class {
	case Urban:
		return 1.0
	case Suburban:
		return 0.85
	default:
		return 0.6
	}
}

// CanvassingEfficiency scales a combined targeting score by how quickly doors
// can be knocked in the density class.  The result is clamped to [0, 100].
func CanvassingEfficiency(combined float64, class DensityClass) float64 {
	return Clamp(combined*efficiencyMultiplier(class), 0, 100)
}

// Clamp bounds v to [lo, hi].  NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

//Personal.AI order the ending
