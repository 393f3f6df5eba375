package session

import (
	"context"
	"encoding/json"
	"time"

	"hotelsearch/internal/clock"
	"hotelsearch/internal/config"
	"hotelsearch/internal/errs"
	"hotelsearch/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hotelsearch:session:"

// RedisStore keeps sessions as JSON values with a sliding TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	clock  clock.Clock
}

// NewRedisClient creates a Redis client from configuration
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// NewRedisStore creates a session store on client
func NewRedisStore(client *redis.Client, ttl time.Duration, clk clock.Clock) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, clock: clk}
}

var _ service.SessionStore = (*RedisStore)(nil)

// Ping tests the Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errs.Mark(errs.Wrap(err, "redis ping failed"), errs.ErrTransport)
	}
	return nil
}

func (r *RedisStore) Create(ctx context.Context) (*service.Session, error) {
	s := service.NewSession(uuid.NewString(), r.clock.Now())
	if err := r.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (*service.Session, error) {
	raw, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, errs.NotFound("session %s not found", id)
	}
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "load session"), errs.ErrTransport)
	}
	return decode(raw)
}

func (r *RedisStore) Save(ctx context.Context, s *service.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return errs.Wrap(err, "encode session")
	}
	if err := r.client.Set(ctx, keyPrefix+s.ID, raw, r.ttl).Err(); err != nil {
		return errs.Mark(errs.Wrap(err, "save session"), errs.ErrTransport)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return errs.Mark(errs.Wrap(err, "delete session"), errs.ErrTransport)
	}
	if n == 0 {
		return errs.NotFound("session %s not found", id)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
