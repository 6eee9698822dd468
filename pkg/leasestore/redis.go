package leasestore

import (
	"context"
	"fmt"
	"time"

	"bus-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// compare-and-delete: remove the key only when the caller still owns it
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis implements Store on top of a Redis instance. SETNX gives the
// set-if-absent-with-expiry primitive; a Lua script gives compare-and-delete.
type Redis struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedis(config utils.RedisConfig, log *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", config.Addr, err)
	}

	return &Redis{
		client: client,
		log:    log.With(zap.String("component", "leasestore")),
	}, nil
}

func (s *Redis) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		s.log.Error("Lease acquire failed",
			zap.Error(err),
			zap.String("key", key),
		)
		// fail closed: an unreachable store means "not acquired"
		return false, fmt.Errorf("%w: acquire %s: %v", ErrUnavailable, key, err)
	}

	return ok, nil
}

func (s *Redis) Release(ctx context.Context, key, owner string) error {
	if err := releaseScript.Run(ctx, s.client, []string{key}, owner).Err(); err != nil && err != redis.Nil {
		s.log.Error("Lease release failed",
			zap.Error(err),
			zap.String("key", key),
		)
		return fmt.Errorf("%w: release %s: %v", ErrUnavailable, key, err)
	}

	return nil
}

func (s *Redis) ReleaseAny(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.log.Error("Lease unconditional release failed",
			zap.Error(err),
			zap.Int("keys", len(keys)),
		)
		return fmt.Errorf("%w: release %d keys: %v", ErrUnavailable, len(keys), err)
	}

	return nil
}

func (s *Redis) PeekMany(ctx context.Context, keys []string) (map[string]string, error) {
	owners := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return owners, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		// display aid only: degrade to "no additional holds known"
		s.log.Warn("Lease peek degraded, store unreachable",
			zap.Error(err),
			zap.Int("keys", len(keys)),
		)
		return owners, nil
	}

	for i, value := range values {
		if value == nil {
			continue
		}
		if owner, ok := value.(string); ok {
			owners[keys[i]] = owner
		}
	}

	return owners, nil
}

func (s *Redis) Close() error {
	return s.client.Close()
}
