package canvassing

import (
	"fmt"
	"sort"

	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
)

// TurfOptions tunes OptimizeTurfs.  Zero values take defaults: the universe's
// doors-per-turf target, no turf limit, and GOTV priority ordering.  An
// unrecognized PriorityMetric also orders by GOTV priority.
type TurfOptions struct {
	TargetDoorsPerTurf int     `json:"target_doors_per_turf"`
	MaxTurfs           int     `json:"max_turfs"`
	PriorityMetric     SortKey `json:"priority_metric"`
}

// Turf is a group of precincts worked as one canvassing unit.
type Turf struct {
	TurfID          string   `json:"turf_id"`
	TurfName        string   `json:"turf_name"`
	PrecinctIDs     []string `json:"precinct_ids"`
	EstimatedDoors  int      `json:"estimated_doors"`
	AvgGOTVPriority float64  `json:"avg_gotv_priority"`

	gotvSum float64
}

func (t *Turf) add(e *Entry) {
	t.PrecinctIDs = append(t.PrecinctIDs, e.PrecinctID)
	t.EstimatedDoors += e.EstimatedDoors
	t.gotvSum += e.GOTVPriority
	t.AvgGOTVPriority = t.gotvSum / float64(len(t.PrecinctIDs))
}

// OptimizeTurfs groups the precincts of u into turfs.  Precincts are taken in
// descending priority order and appended to the open turf while it stays
// within the doors target; a precinct larger than the target gets a turf of
// its own.  Once MaxTurfs turfs exist, remaining precincts are folded into the
// turf with the fewest doors.  u is not modified.
func (s *Service) OptimizeTurfs(u *Universe, opts *TurfOptions) []Turf {
	if u == nil || len(u.Precincts) == 0 {
		return []Turf{}
	}
	var o TurfOptions
	if opts != nil {
		o = *opts
	}
	if o.TargetDoorsPerTurf <= 0 {
		o.TargetDoorsPerTurf = u.Config.withDefaults(s.defaults).TargetDoorsPerTurf
	}
	key := turfMetric(o.PriorityMetric)

	ordered := append([]Entry(nil), u.Precincts...)
	sort.SliceStable(ordered, func(i, j int) bool {
		mi, mj := ordered[i].metric(key), ordered[j].metric(key)
		if mi != mj {
			return mi > mj
		}
		return ordered[i].PrecinctID < ordered[j].PrecinctID
	})

	turfs := make([]*Turf, 0)
	for i := range ordered {
		e := &ordered[i]
		if n := len(turfs); n > 0 {
			open := turfs[n-1]
			if open.EstimatedDoors+e.EstimatedDoors <= o.TargetDoorsPerTurf {
				open.add(e)
				continue
			}
		}
		if o.MaxTurfs > 0 && len(turfs) >= o.MaxTurfs {
			smallestTurf(turfs).add(e)
			continue
		}
		t := &Turf{
			TurfID:      fmt.Sprintf("turf-%d", len(turfs)+1),
			TurfName:    fmt.Sprintf("Turf %d", len(turfs)+1),
			PrecinctIDs: make([]string, 0, 1),
		}
		t.add(e)
		turfs = append(turfs, t)
	}

	out := make([]Turf, len(turfs))
	for i, t := range turfs {
		out[i] = *t
	}
	s.logger.Debug("turfs optimized",
		logging.String("universe_id", u.ID),
		logging.Int("turfs", len(out)))
	return out
}

func smallestTurf(turfs []*Turf) *Turf {
	best := turfs[0]
	for _, t := range turfs[1:] {
		if t.EstimatedDoors < best.EstimatedDoors {
			best = t
		}
	}
	return best
}

func turfMetric(k SortKey) SortKey {
	switch k {
	case SortByCombined, SortByPersuasion, SortByDoors, SortBySwing:
		return k
	}
	return SortByGOTV
}

//Personal.AI order the ending
