package store

import (
	"context"
	"strings"

	"github.com/turtacn/precinct-analytics/internal/application/canvassing"
	"github.com/turtacn/precinct-analytics/internal/domain/precinct"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/database/redis"
	"github.com/turtacn/precinct-analytics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// RedisStore keeps universes and segments as JSON documents in redis so
// every API replica sees the same registry.
type RedisStore struct {
	client *redis.Client
	cache  redis.Cache
	logger logging.Logger
}

// NewRedisStore builds a store over an established client.
func NewRedisStore(client *redis.Client, opts Options, log logging.Logger) (*RedisStore, error) {
	if client == nil {
		return nil, errors.InvalidParam("redis client is required")
	}
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = redis.DefaultPrefix
	}
	log = logging.OrNop(log)
	return &RedisStore{
		client: client,
		cache:  redis.NewRedisCache(client, log, redis.WithPrefix(prefix), redis.WithDefaultTTL(opts.TTL)),
		logger: log,
	}, nil
}

func (r *RedisStore) SaveUniverse(ctx context.Context, u *canvassing.Universe) error {
	if err := validateUniverse(u); err != nil {
		return err
	}
	if err := r.cache.Set(ctx, key(universeKind, u.ID), u, 0); err != nil {
		return err
	}
	r.logger.Debug("universe stored", logging.String("universe_id", u.ID))
	return nil
}

func (r *RedisStore) GetUniverse(ctx context.Context, id string) (*canvassing.Universe, error) {
	var u canvassing.Universe
	if err := r.cache.Get(ctx, key(universeKind, id), &u); err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			return nil, universeNotFound(id)
		}
		return nil, err
	}
	return &u, nil
}

func (r *RedisStore) ListUniverses(ctx context.Context) ([]*canvassing.Universe, error) {
	keys, err := r.cache.Keys(ctx, universeKind+":*")
	if err != nil {
		return nil, err
	}
	out := make([]*canvassing.Universe, 0, len(keys))
	for _, k := range keys {
		u, err := r.GetUniverse(ctx, strings.TrimPrefix(k, universeKind+":"))
		if errors.IsCode(err, errors.CodeUniverseNotFound) {
			continue // expired between SCAN and GET
		}
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	sortUniverses(out)
	return out, nil
}

func (r *RedisStore) DeleteUniverse(ctx context.Context, id string) error {
	n, err := r.cache.Delete(ctx, key(universeKind, id))
	if err != nil {
		return err
	}
	if n == 0 {
		return universeNotFound(id)
	}
	return nil
}

func (r *RedisStore) SaveSegment(ctx context.Context, s *precinct.SegmentDefinition) error {
	if err := validateSegment(s); err != nil {
		return err
	}
	return r.cache.Set(ctx, key(segmentKind, s.ID), s, 0)
}

func (r *RedisStore) GetSegment(ctx context.Context, id string) (*precinct.SegmentDefinition, error) {
	var s precinct.SegmentDefinition
	if err := r.cache.Get(ctx, key(segmentKind, id), &s); err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			return nil, segmentNotFound(id)
		}
		return nil, err
	}
	return &s, nil
}

func (r *RedisStore) ListSegments(ctx context.Context) ([]*precinct.SegmentDefinition, error) {
	keys, err := r.cache.Keys(ctx, segmentKind+":*")
	if err != nil {
		return nil, err
	}
	out := make([]*precinct.SegmentDefinition, 0, len(keys))
	for _, k := range keys {
		s, err := r.GetSegment(ctx, strings.TrimPrefix(k, segmentKind+":"))
		if errors.IsCode(err, errors.CodeSegmentNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	sortSegments(out)
	return out, nil
}

func (r *RedisStore) DeleteSegment(ctx context.Context, id string) error {
	n, err := r.cache.Delete(ctx, key(segmentKind, id))
	if err != nil {
		return err
	}
	if n == 0 {
		return segmentNotFound(id)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error { return r.cache.Ping(ctx) }

func (r *RedisStore) Close() error { return r.client.Close() }

//Personal.AI order the ending
