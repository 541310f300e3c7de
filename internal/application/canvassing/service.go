package canvassing

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/domain/scoring"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// ServiceConfig holds the dependencies of Service.
type ServiceConfig struct {
	Dataset  *precinct.Dataset
	Logger   logging.Logger
	Defaults Config
	Clock    func() time.Time
	NewID    func() string
}

// Service builds and manipulates canvassing universes.  It holds no mutable
// state of its own.
type Service struct {
	ds       *precinct.Dataset
	logger   logging.Logger
	defaults Config
	now      func() time.Time
	newID    func() string
}

// NewService validates cfg and constructs a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Dataset == nil {
		return nil, errors.InvalidParam("canvassing: dataset is required")
	}
	s := &Service{
		ds:       cfg.Dataset,
		logger:   logging.OrNop(cfg.Logger),
		defaults: cfg.Defaults.withDefaults(DefaultConfig()),
		now:      cfg.Clock,
		newID:    cfg.NewID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s, nil
}

// Defaults returns the effective default sizing configuration.
func (s *Service) Defaults() Config { return s.defaults }

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// CreateUniverse sizes a universe from precinct ids or names.  Unmatched ids
// are dropped and duplicates collapsed; an empty result is an error.  The
// universe is ranked by combined score.
func (s *Service) CreateUniverse(name string, precinctIDs []string, cfg *Config) (*Universe, error) {
	records := s.ds.Resolve(precinctIDs)
	if len(records) == 0 {
		return nil, errors.NoMatchingPrecincts()
	}
	c := s.resolveConfig(cfg)

	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, entryFromRecord(r, c))
	}
	u := s.assemble(name, "", entries, c)

	s.logger.Info("canvassing universe created",
		logging.String("universe_id", u.ID),
		logging.Int("requested", len(precinctIDs)),
		logging.Int("precincts", u.TotalPrecincts),
		logging.Int("doors", u.TotalEstimatedDoors))
	return u, nil
}

// CreateUniverseFromSegment sizes a universe from segment result rows.  Rows
// naming a known precinct are sized from the dataset; other rows are sized
// from the row's registered voters.
func (s *Service) CreateUniverseFromSegment(results []precinct.SegmentResult, name, description string, cfg *Config) (*Universe, error) {
	if len(results) == 0 {
		return nil, errors.EmptySegment()
	}
	c := s.resolveConfig(cfg)

	seen := make(map[string]struct{}, len(results))
	entries := make([]Entry, 0, len(results))
	for i := range results {
		row := &results[i]
		var e Entry
		if r, ok := s.ds.Precinct(row.PrecinctID); ok {
			e = entryFromRecord(r, c)
		} else {
			e = entryFromSegmentRow(row, c)
		}
		if e.PrecinctID == "" {
			continue
		}
		if _, dup := seen[e.PrecinctID]; dup {
			continue
		}
		seen[e.PrecinctID] = struct{}{}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, errors.EmptySegment()
	}

	u := s.assemble(name, description, entries, c)
	u.SegmentID = "segment_" + segmentToken(s.newID())

	s.logger.Info("canvassing universe created from segment",
		logging.String("universe_id", u.ID),
		logging.String("segment_id", u.SegmentID),
		logging.Int("precincts", u.TotalPrecincts))
	return u, nil
}

func segmentToken(id string) string {
	token := strings.ReplaceAll(id, "-", "")
	if len(token) > 12 {
		token = token[:12]
	}
	return token
}

func (s *Service) resolveConfig(cfg *Config) Config {
	if cfg == nil {
		return s.defaults
	}
	return cfg.withDefaults(s.defaults)
}

func (s *Service) assemble(name, description string, entries []Entry, c Config) *Universe {
	now := s.now().UTC()
	u := &Universe{
		ID:          s.newID(),
		Name:        name,
		Description: description,
		Precincts:   entries,
		Config:      c,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	recomputeTotals(u)
	rank(u, SortByCombined)
	return u
}

func sizeDoors(base float64, c Config) (doors, turfs, hours int) {
	doors = int(math.Round(base * ResidentialCoverage))
	if doors < 0 {
		doors = 0
	}
	turfs = int(math.Ceil(float64(doors) / float64(c.TargetDoorsPerTurf)))
	hours = int(math.Ceil(float64(doors) / float64(c.TargetDoorsPerHour)))
	return doors, turfs, hours
}

func entryFromRecord(r *precinct.Record, c Config) Entry {
	base, ok := r.VotingAge()
	if !ok || base <= 0 {
		base = 0
		if r.Electoral.RegisteredVoters != nil {
			base = *r.Electoral.RegisteredVoters
		}
	}
	doors, turfs, hours := sizeDoors(base, c)
	density, _ := r.Density()
	t := r.Targeting
	return Entry{
		PrecinctID:            r.ID,
		PrecinctName:          r.Name,
		Jurisdiction:          r.JurisdictionName,
		EstimatedDoors:        doors,
		EstimatedTurfs:        turfs,
		EstimatedHours:        hours,
		GOTVPriority:          t.GOTVPriority,
		PersuasionOpportunity: t.PersuasionOpportunity,
		SwingPotential:        r.Electoral.SwingPotential,
		CombinedScore:         t.CombinedScore,
		TargetingStrategy:     scoring.ResolveStrategy(t.Strategy, t.GOTVPriority, t.PersuasionOpportunity),
		PopulationDensity:     density,
		DensityClass:          scoring.ClassifyDensity(density),
	}
}

func entryFromSegmentRow(row *precinct.SegmentResult, c Config) Entry {
	doors, turfs, hours := sizeDoors(row.RegisteredVoters, c)
	combined := (row.GOTVPriority + row.PersuasionOpportunity) / 2
	if row.CombinedScore != nil {
		combined = *row.CombinedScore
	}
	name := row.PrecinctName
	if name == "" {
		name = row.PrecinctID
	}
	return Entry{
		PrecinctID:            strings.TrimSpace(row.PrecinctID),
		PrecinctName:          name,
		Jurisdiction:          row.Jurisdiction,
		EstimatedDoors:        doors,
		EstimatedTurfs:        turfs,
		EstimatedHours:        hours,
		GOTVPriority:          row.GOTVPriority,
		PersuasionOpportunity: row.PersuasionOpportunity,
		SwingPotential:        row.SwingPotential,
		CombinedScore:         combined,
		TargetingStrategy:     scoring.ResolveStrategy(row.TargetingStrategy, row.GOTVPriority, row.PersuasionOpportunity),
		DensityClass:          scoring.Rural,
	}
}

func recomputeTotals(u *Universe) {
	u.TotalPrecincts = len(u.Precincts)
	u.TotalEstimatedDoors, u.EstimatedTurfs, u.EstimatedHours = 0, 0, 0
	for i := range u.Precincts {
		e := &u.Precincts[i]
		u.TotalEstimatedDoors += e.EstimatedDoors
		u.EstimatedTurfs += e.EstimatedTurfs
		u.EstimatedHours += e.EstimatedHours
	}
	u.VolunteersNeeded = int(math.Ceil(float64(u.EstimatedHours) / ShiftHours))
}

// ---------------------------------------------------------------------------
// Ranking
// ---------------------------------------------------------------------------

// SortUniverse re-ranks u descending by key, renumbers priority ranks 1..N and
// stamps UpdatedAt.  u is modified in place and returned.
func (s *Service) SortUniverse(u *Universe, key SortKey) *Universe {
	if u == nil {
		return nil
	}
	rank(u, ParseSortKey(string(key)))
	u.UpdatedAt = s.now().UTC()
	return u
}

func rank(u *Universe, key SortKey) {
	sort.SliceStable(u.Precincts, func(i, j int) bool {
		a, b := &u.Precincts[i], &u.Precincts[j]
		ma, mb := a.metric(key), b.metric(key)
		if ma != mb {
			return ma > mb
		}
		return a.PrecinctID < b.PrecinctID
	})
	for i := range u.Precincts {
		u.Precincts[i].PriorityRank = i + 1
	}
	u.SortKey = key
}

//Personal.AI order the ending
