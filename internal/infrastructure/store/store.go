// Package store persists canvassing universes and saved segments.  Two
// backends are provided: an in-process cache for single-node deployments and
// a redis-backed store shared across API replicas.
package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/turtacn/precinct-analytics/internal/application/canvassing"
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// UniverseStore persists canvassing universes by id.
type UniverseStore interface {
	SaveUniverse(ctx context.Context, u *canvassing.Universe) error
	GetUniverse(ctx context.Context, id string) (*canvassing.Universe, error)
	ListUniverses(ctx context.Context) ([]*canvassing.Universe, error)
	DeleteUniverse(ctx context.Context, id string) error
}

// SegmentStore persists saved segments by id.  It satisfies the lookalike
// matcher's segment resolver.
type SegmentStore interface {
	SaveSegment(ctx context.Context, s *precinct.SegmentDefinition) error
	GetSegment(ctx context.Context, id string) (*precinct.SegmentDefinition, error)
	ListSegments(ctx context.Context) ([]*precinct.SegmentDefinition, error)
	DeleteSegment(ctx context.Context, id string) error
}

// Store is the full registry.
type Store interface {
	UniverseStore
	SegmentStore
	Ping(ctx context.Context) error
	Close() error
}

// Options tunes either backend.  A zero TTL keeps entries until deleted.
type Options struct {
	TTL           time.Duration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`
	CleanupPeriod time.Duration `mapstructure:"cleanup_period" yaml:"cleanup_period" json:"cleanup_period"`
	KeyPrefix     string        `mapstructure:"key_prefix" yaml:"key_prefix" json:"key_prefix"`
}

const (
	universeKind = "universe"
	segmentKind  = "segment"
)

func key(kind, id string) string {
	return fmt.Sprintf("%s:%s", kind, id)
}

func universeNotFound(id string) error {
	return errors.New(errors.CodeUniverseNotFound, "canvassing universe not found").WithDetail(id)
}

func segmentNotFound(id string) error {
	return errors.New(errors.CodeSegmentNotFound, "segment not found").WithDetail(id)
}

func validateUniverse(u *canvassing.Universe) error {
	if u == nil || u.ID == "" {
		return errors.InvalidParam("universe with an id is required")
	}
	return nil
}

func validateSegment(s *precinct.SegmentDefinition) error {
	if s == nil || s.ID == "" {
		return errors.InvalidParam("segment with an id is required")
	}
	return nil
}

func cloneSegment(s *precinct.SegmentDefinition) *precinct.SegmentDefinition {
	c := *s
	c.Results = make([]precinct.SegmentResult, len(s.Results))
	copy(c.Results, s.Results)
	return &c
}

// sortUniverses orders by creation time, then id.
func sortUniverses(us []*canvassing.Universe) {
	sort.Slice(us, func(i, j int) bool {
		if !us[i].CreatedAt.Equal(us[j].CreatedAt) {
			return us[i].CreatedAt.Before(us[j].CreatedAt)
		}
		return us[i].ID < us[j].ID
	})
}

func sortSegments(ss []*precinct.SegmentDefinition) {
	sort.Slice(ss, func(i, j int) bool { return ss[i].ID < ss[j].ID })
}

//Personal.AI order the ending
