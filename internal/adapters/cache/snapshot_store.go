package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	gocache "github.com/patrickmn/go-cache"

	"github.com/craftplan/craftplan-go/internal/domain/lists"
)

const snapshotKeyPrefix = "craftplan:snapshot:"

// MemorySnapshotStore keeps requirement snapshots in process memory,
// the default backend for single-process CLI usage
type MemorySnapshotStore struct {
	cache *gocache.Cache
}

// NewMemorySnapshotStore creates a snapshot store with the given TTL
func NewMemorySnapshotStore(ttl time.Duration) *MemorySnapshotStore {
	expiration := ttl
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	return &MemorySnapshotStore{
		cache: gocache.New(expiration, 10*time.Minute),
	}
}

// Get returns the stored blob for a key
func (s *MemorySnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := s.cache.Get(key)
	if !ok {
		return nil, &lists.ErrSnapshotNotFound{Key: key}
	}
	blob, ok := value.([]byte)
	if !ok {
		return nil, &lists.ErrSnapshotNotFound{Key: key}
	}
	return blob, nil
}

// Put stores a blob under a key
func (s *MemorySnapshotStore) Put(ctx context.Context, key string, blob []byte) error {
	s.cache.SetDefault(key, blob)
	return nil
}

// RedisSnapshotStore keeps requirement snapshots in redis, for setups
// where snapshots outlive the process or are read by other consumers
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotStore creates a redis-backed snapshot store
func NewRedisSnapshotStore(addr, password string, db int, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Get returns the stored blob for a key
func (s *RedisSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	blob, err := s.client.Get(ctx, snapshotKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, &lists.ErrSnapshotNotFound{Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot from redis: %w", err)
	}
	return blob, nil
}

// Put stores a blob under a key
func (s *RedisSnapshotStore) Put(ctx context.Context, key string, blob []byte) error {
	if err := s.client.Set(ctx, snapshotKeyPrefix+key, blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot to redis: %w", err)
	}
	return nil
}

// Close releases the redis connection
func (s *RedisSnapshotStore) Close() error {
	return s.client.Close()
}
