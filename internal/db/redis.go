package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/lecture-summarizer/internal/domain"
	"github.com/airenas/lecture-summarizer/internal/secure"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps jobs and artifacts in Redis, values are encrypted
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	sealer *secure.Sealer
}

// NewRedisStore creates a store from a redis:// URL
func NewRedisStore(connStr, encryptionKey string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	goapp.Log.Info().Str("redis", opt.Addr).Int("db", opt.DB).Dur("ttl", ttl).Send()

	sealer, err := secure.NewSealer(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("create sealer: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opt), ttl: ttl, sealer: sealer}, nil
}

func keyJob(id string) string {
	return fmt.Sprintf("job:%s", id)
}

func keyArtifact(id string) string {
	return fmt.Sprintf("artifact:%s", id)
}

// SaveJob stores the job as sealed JSON
func (r *RedisStore) SaveJob(ctx context.Context, job *domain.Job) error {
	goapp.Log.Trace().Str("id", job.ID).Str("status", string(job.Status)).Msg("save job")
	return r.set(ctx, keyJob(job.ID), job)
}

// GetJob returns domain.ErrNotFound for unknown or expired ids
func (r *RedisStore) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	var res domain.Job
	if err := r.get(ctx, keyJob(id), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SaveArtifact stores the text artifact
func (r *RedisStore) SaveArtifact(ctx context.Context, a *domain.Artifact) error {
	goapp.Log.Trace().Str("id", a.ID).Int("len", len(a.Text)).Msg("save artifact")
	return r.set(ctx, keyArtifact(a.ID), a)
}

// GetArtifact returns domain.ErrNotFound for unknown or expired ids
func (r *RedisStore) GetArtifact(ctx context.Context, id string) (*domain.Artifact, error) {
	var res domain.Artifact
	if err := r.get(ctx, keyArtifact(id), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *RedisStore) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	sealed, err := r.sealer.Seal(key, data)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	return r.client.Set(ctx, key, sealed, r.ttl).Err()
}

func (r *RedisStore) get(ctx context.Context, key string, v any) error {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	data, err := r.sealer.Open(key, b)
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}
	return json.Unmarshal(data, v)
}

// Close closes the redis client
func (r *RedisStore) Close() error {
	return r.client.Close()
}
