package services

import (
  "context"
  "fmt"
  "time"

  "github.com/redis/go-redis/v9"

  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
)

// TokenBlacklist is the revocation list for refresh tokens. A revoked
// token stays listed until its natural expiry, after which the signature
// check alone rejects it.
type TokenBlacklist interface {
  Revoke(ctx context.Context, jti string, ttl time.Duration) error
  IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisTokenBlacklist struct {
  log    *logger.Logger
  client *redis.Client
}

const revokedKeyPrefix = "revoked_refresh:"

func NewRedisTokenBlacklist(log *logger.Logger, client *redis.Client) TokenBlacklist {
  serviceLog := log.With("service", "TokenBlacklist")
  return &redisTokenBlacklist{log: serviceLog, client: client}
}

func (bl *redisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
  if jti == "" {
    bl.log.Warn("Empty jti given to Revoke, Cannot proceed.")
    return fmt.Errorf("empty jti given to Revoke")
  }
  if ttl <= 0 {
    // Token is already past its own expiry; nothing to list.
    bl.log.Debug("Refresh token already expired, skipping blacklist entry", "jti", jti)
    return nil
  }
  if err := bl.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err(); err != nil {
    bl.log.Error("Failed to add refresh token to blacklist", "error", err, "jti", jti)
    return fmt.Errorf("failed to add refresh token to blacklist: %w", err)
  }
  bl.log.Info("Refresh token revoked", "jti", jti, "ttl", ttl)
  return nil
}

func (bl *redisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
  n, err := bl.client.Exists(ctx, revokedKeyPrefix+jti).Result()
  if err != nil {
    bl.log.Error("Failed to check refresh token blacklist", "error", err, "jti", jti)
    return false, fmt.Errorf("failed to check refresh token blacklist: %w", err)
  }
  return n > 0, nil
}
