package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotaguide/rota-backend/config"
	"github.com/rotaguide/rota-backend/pkg/logger"
)

var client *redis.Client

// Init connects the shared client and verifies it with a ping.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

func GetClient() *redis.Client {
	return client
}

func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

const revokedKeyPrefix = "revoked:"

// RevocationStore reads the token revocation list the identity provider
// maintains. Entries are keyed by token ID and expire with the token.
type RevocationStore struct {
	client *redis.Client
}

func NewRevocationStore(c *redis.Client) *RevocationStore {
	return &RevocationStore{client: c}
}

// Revoke marks a token ID as revoked until ttl elapses.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		logger.Error("Failed to revoke token", err, map[string]interface{}{
			"jti": tokenID,
		})
		return err
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	err := s.client.Get(ctx, revokedKeyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token revocation", err, map[string]interface{}{
			"jti": tokenID,
		})
		return false, err
	}
	return true, nil
}
