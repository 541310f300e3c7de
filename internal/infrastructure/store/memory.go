package store

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/turtacn/precinct-analytics/internal/application/canvassing"
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
)

const defaultCleanupPeriod = 10 * time.Minute

// MemoryStore keeps entries in process memory.  Values are cloned on the way
// in and out so callers never share a universe with the store.
type MemoryStore struct {
	items  *gocache.Cache
	ttl    time.Duration
	logger logging.Logger
}

// NewMemoryStore builds an in-process store.
func NewMemoryStore(opts Options, log logging.Logger) *MemoryStore {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	cleanup := opts.CleanupPeriod
	if cleanup <= 0 {
		cleanup = defaultCleanupPeriod
	}
	return &MemoryStore{
		items:  gocache.New(ttl, cleanup),
		ttl:    ttl,
		logger: logging.OrNop(log),
	}
}

func (m *MemoryStore) SaveUniverse(_ context.Context, u *canvassing.Universe) error {
	if err := validateUniverse(u); err != nil {
		return err
	}
	m.items.Set(key(universeKind, u.ID), u.Clone(), gocache.DefaultExpiration)
	m.logger.Debug("universe stored", logging.String("universe_id", u.ID))
	return nil
}

func (m *MemoryStore) GetUniverse(_ context.Context, id string) (*canvassing.Universe, error) {
	v, ok := m.items.Get(key(universeKind, id))
	if !ok {
		return nil, universeNotFound(id)
	}
	return v.(*canvassing.Universe).Clone(), nil
}

func (m *MemoryStore) ListUniverses(_ context.Context) ([]*canvassing.Universe, error) {
	var out []*canvassing.Universe
	for k, item := range m.items.Items() {
		if !strings.HasPrefix(k, universeKind+":") {
			continue
		}
		out = append(out, item.Object.(*canvassing.Universe).Clone())
	}
	sortUniverses(out)
	return out, nil
}

func (m *MemoryStore) DeleteUniverse(_ context.Context, id string) error {
	k := key(universeKind, id)
	if _, ok := m.items.Get(k); !ok {
		return universeNotFound(id)
	}
	m.items.Delete(k)
	return nil
}

func (m *MemoryStore) SaveSegment(_ context.Context, s *precinct.SegmentDefinition) error {
	if err := validateSegment(s); err != nil {
		return err
	}
	m.items.Set(key(segmentKind, s.ID), cloneSegment(s), gocache.DefaultExpiration)
	return nil
}

func (m *MemoryStore) GetSegment(_ context.Context, id string) (*precinct.SegmentDefinition, error) {
	v, ok := m.items.Get(key(segmentKind, id))
	if !ok {
		return nil, segmentNotFound(id)
	}
	return cloneSegment(v.(*precinct.SegmentDefinition)), nil
}

func (m *MemoryStore) ListSegments(_ context.Context) ([]*precinct.SegmentDefinition, error) {
	var out []*precinct.SegmentDefinition
	for k, item := range m.items.Items() {
		if !strings.HasPrefix(k, segmentKind+":") {
			continue
		}
		out = append(out, cloneSegment(item.Object.(*precinct.SegmentDefinition)))
	}
	sortSegments(out)
	return out, nil
}

func (m *MemoryStore) DeleteSegment(_ context.Context, id string) error {
	k := key(segmentKind, id)
	if _, ok := m.items.Get(k); !ok {
		return segmentNotFound(id)
	}
	m.items.Delete(k)
	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close drops every entry.
func (m *MemoryStore) Close() error {
	m.items.Flush()
	return nil
}

//Personal.AI order the ending
