package canvassing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/domain/scoring"
)

// InterJurisdictionHop is the heuristic distance in miles between the last
// precinct of one jurisdiction and the first of the next.
const InterJurisdictionHop = 5.0

// Metrics is a quick door-count estimate for an ad-hoc precinct selection.
type Metrics struct {
	TotalDoors    int                  `json:"total_doors"`
	EstimatedTime float64              `json:"estimated_time"`
	DoorsPerHour  float64              `json:"doors_per_hour"`
	Density       scoring.DensityClass `json:"density,omitempty"`
}

// CalculateMetrics estimates doors and canvassing time for precinct ids.  The
// pace comes from the average population density of the selection.  An empty
// or fully unmatched selection yields zero metrics.
func (s *Service) CalculateMetrics(precinctIDs []string) Metrics {
	records := s.ds.Resolve(precinctIDs)
	if len(records) == 0 {
		return Metrics{}
	}

	var (
		doors       int
		densitySum  float64
		densitySeen int
	)
	for _, r := range records {
		e := entryFromRecord(r, s.defaults)
		doors += e.EstimatedDoors
		if d, ok := r.Density(); ok {
			densitySum += d
			densitySeen++
		}
	}
	avg := 0.0
	if densitySeen > 0 {
		avg = densitySum / float64(densitySeen)
	}
	class := scoring.ClassifyDensity(avg)
	pace := scoring.DoorsPerHour(class)
	return Metrics{
		TotalDoors:    doors,
		EstimatedTime: math.Round(float64(doors)/pace*10) / 10,
		DoorsPerHour:  pace,
		Density:       class,
	}
}

// RouteSuggestion is a heuristic visiting order for a set of precincts.
type RouteSuggestion struct {
	OptimalOrder      []string `json:"optimal_order"`
	EstimatedDistance float64  `json:"estimated_distance"`
	Tips              []string `json:"tips"`
}

// GetRouteSuggestions orders a comma-separated list of precinct ids by
// jurisdiction as a proximity proxy.  Turf ids and unmatched input produce an
// empty order and an explanatory tip.
func (s *Service) GetRouteSuggestions(token string) RouteSuggestion {
	ids := splitIDs(token)
	for _, id := range ids {
		if strings.HasPrefix(strings.ToLower(id), "turf-") {
			return RouteSuggestion{
				OptimalOrder: []string{},
				Tips:         []string{"Route suggestions need precinct ids; expand the turf into its precincts first."},
			}
		}
	}

	records := s.ds.Resolve(ids)
	if len(records) == 0 {
		return RouteSuggestion{
			OptimalOrder: []string{},
			Tips:         []string{"No matching precincts found for the requested route."},
		}
	}

	sorted := append([]*precinct.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ji, jj := jurisdictionKey(sorted[i]), jurisdictionKey(sorted[j])
		if ji != jj {
			return ji < jj
		}
		return sorted[i].ID < sorted[j].ID
	})

	order := make([]string, 0, len(sorted))
	distance := 0.0
	groups := 0
	rural := 0
	for i, r := range sorted {
		order = append(order, r.ID)
		d, _ := r.Density()
		class := scoring.ClassifyDensity(d)
		if class == scoring.Rural {
			rural++
		}
		if i == 0 {
			groups++
			continue
		}
		if jurisdictionKey(sorted[i-1]) != jurisdictionKey(r) {
			groups++
			distance += InterJurisdictionHop
		} else {
			distance += scoring.HopDistance(class)
		}
	}

	tips := []string{fmt.Sprintf("Start in %s and finish each jurisdiction before moving on.", displayJurisdiction(sorted[0]))}
	if groups > 1 {
		tips = append(tips, fmt.Sprintf("Route crosses %d jurisdictions; schedule a vehicle between them.", groups))
	}
	if rural > 0 {
		tips = append(tips, "Rural precincts are spread out; pair canvassers with drivers.")
	}
	if skipped := len(ids) - len(records); skipped > 0 {
		tips = append(tips, fmt.Sprintf("%d requested ids were skipped as unknown or duplicate.", skipped))
	}

	return RouteSuggestion{
		OptimalOrder:      order,
		EstimatedDistance: math.Round(distance*10) / 10,
		Tips:              tips,
	}
}

func splitIDs(token string) []string {
	parts := strings.Split(token, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func jurisdictionKey(r *precinct.Record) string {
	return precinct.Fold(displayJurisdiction(r))
}

func displayJurisdiction(r *precinct.Record) string {
	if r.JurisdictionName != "" {
		return r.JurisdictionName
	}
	return r.JurisdictionID
}

//Personal.AI order the ending
