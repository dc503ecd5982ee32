package db

import (
  "context"
  "fmt"
  "time"

  "github.com/redis/go-redis/v9"

  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
)

// NewRedisClient connects and pings so a bad address fails at startup
// rather than on the first revocation check.
func NewRedisClient(log *logger.Logger, address, password string) (*redis.Client, error) {
  opt := &redis.Options{
    Addr:     address,
    Password: password,
    DB:       0,
  }
  rdb := redis.NewClient(opt)

  ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    return nil, fmt.Errorf("redis ping failed: %w", err)
  }
  log.Info("Redis connection established", "address", address)
  return rdb, nil
}
