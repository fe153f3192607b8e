package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps sessions in a Redis hash per token, so multiple instances
// of the app can share one login.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (s *RedisStore) Create(ctx context.Context, id Identity) (string, error) {
	token := uuid.NewString()
	key := redisKeyPrefix + token

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, "user_id", id.UserID, "username", id.Username)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (Identity, error) {
	fields, err := s.rdb.HGetAll(ctx, redisKeyPrefix+token).Result()
	if err != nil {
		return Identity{}, fmt.Errorf("get session: %w", err)
	}
	if len(fields) == 0 {
		return Identity{}, ErrNotFound
	}
	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("corrupt session %q: %w", token, err)
	}
	return Identity{UserID: userID, Username: fields["username"]}, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+token).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
