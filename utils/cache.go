// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"guidely/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient backs payment idempotency keys and webhook dedup.
	CacheClient *redis.Client
)

// IdempotencyPrefix is the prefix for payment-intent idempotency keys.
const IdempotencyPrefix = "intent:"

// IdempotencyTTL bounds how long a payment-intent key is reused.
const IdempotencyTTL = 24 * time.Hour

// InitCache initializes the Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}
