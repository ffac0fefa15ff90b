package convstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/types"
)

const stateKeyPrefix = "brandagent:conv:"

// RedisConfig configures the Redis-backed state store.
type RedisConfig struct {
	Addr         string `yaml:"addr" json:"addr"`
	Password     string `yaml:"password" json:"password"`
	DB           int    `yaml:"db" json:"db"`
	PoolSize     int    `yaml:"pool_size" json:"pool_size"`
	MinIdleConns int    `yaml:"min_idle_conns" json:"min_idle_conns"`
	// StateTTL bounds how long an idle conversation survives. Zero keeps
	// records forever.
	StateTTL time.Duration `yaml:"state_ttl" json:"state_ttl"`
}

// RedisStore persists conversation state as JSON in Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    cfg.StateTTL,
		logger: logger.With(zap.String("component", "state_store")),
	}, nil
}

// NewRedisStoreWithClient wraps an existing client. Used by tests.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

// Load fetches and decodes the state for conversationID.
func (s *RedisStore) Load(ctx context.Context, conversationID string) (*types.ConversationState, bool, error) {
	data, err := s.client.Get(ctx, stateKeyPrefix+conversationID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, types.NewError(types.ErrPersistenceFailed, "load conversation state").
			WithRetryable(true).
			WithCause(err)
	}

	var state types.ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false, types.NewError(types.ErrPersistenceFailed, "decode conversation state").
			WithCause(err)
	}
	return &state, true, nil
}

// Save encodes and stores state, refreshing the TTL.
func (s *RedisStore) Save(ctx context.Context, conversationID string, state *types.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return types.NewError(types.ErrPersistenceFailed, "encode conversation state").WithCause(err)
	}
	if err := s.client.Set(ctx, stateKeyPrefix+conversationID, data, s.ttl).Err(); err != nil {
		return types.NewError(types.ErrPersistenceFailed, "save conversation state").
			WithRetryable(true).
			WithCause(err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
