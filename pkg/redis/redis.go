package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/magicmenu/magicmenu-backend/config"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes the Redis connection.
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance, nil when Redis is disabled.
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection.
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// BlacklistToken marks a signed-out token as revoked until it would have expired.
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return nil
	}

	key := fmt.Sprintf("blacklist:%s", token)
	if err := client.Set(ctx, key, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}
	return nil
}

// IsTokenBlacklisted reports whether a token has been revoked by logout.
func IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, nil
	}

	key := fmt.Sprintf("blacklist:%s", token)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}

	return val == "revoked", nil
}

const menuCacheTTL = 5 * time.Minute

func menuCacheKey(slug string) string {
	return fmt.Sprintf("menu:%s", slug)
}

// CacheMenu stores a rendered public menu payload for a restaurant slug.
func CacheMenu(ctx context.Context, slug string, payload []byte) {
	if client == nil {
		return
	}
	if err := client.Set(ctx, menuCacheKey(slug), payload, menuCacheTTL).Err(); err != nil {
		logger.Warn("Failed to cache menu payload", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
	}
}

// GetCachedMenu returns a cached menu payload, or nil on miss or error.
func GetCachedMenu(ctx context.Context, slug string) []byte {
	if client == nil {
		return nil
	}
	payload, err := client.Get(ctx, menuCacheKey(slug)).Bytes()
	if err != nil {
		return nil
	}
	return payload
}

// InvalidateMenu drops the cached payload after a menu mutation.
func InvalidateMenu(ctx context.Context, slug string) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, menuCacheKey(slug)).Err(); err != nil {
		logger.Warn("Failed to invalidate menu cache", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
	}
}
