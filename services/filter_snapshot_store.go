package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AngelinaFiera614/wrenchmark-sub010/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RefreshChannel carries every published FilterSnapshot
const RefreshChannel = "filters:refresh"

// ErrSnapshotNotFound is returned before a session's first refresh
var ErrSnapshotNotFound = errors.New("filter snapshot not found")

// SnapshotStore keeps the result of the latest refresh per session
type SnapshotStore interface {
	Save(ctx context.Context, snapshot models.FilterSnapshot) error
	Load(ctx context.Context, sessionID uuid.UUID) (*models.FilterSnapshot, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

// RedisSnapshotStore writes snapshots under filters:snapshot:<id> and
// publishes them on RefreshChannel for the listing workers
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotStore creates a store; ttl of 0 keeps snapshots forever
func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

func snapshotKey(id uuid.UUID) string {
	return "filters:snapshot:" + id.String()
}

func (s *RedisSnapshotStore) Save(ctx context.Context, snapshot models.FilterSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, snapshotKey(snapshot.SessionID), payload, s.ttl)
	pipe.Publish(ctx, RefreshChannel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Load(ctx context.Context, sessionID uuid.UUID) (*models.FilterSnapshot, error) {
	payload, err := s.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snapshot models.FilterSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snapshot, nil
}

func (s *RedisSnapshotStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	return s.client.Del(ctx, snapshotKey(sessionID)).Err()
}
