package config

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs filter snapshots, the refresh channel and rate limiting
var RedisClient *redis.Client

// ConnectRedis dials REDIS_URL (default redis://localhost:6379). REDIS_POOL_SIZE
// overrides the client's pool size.
func ConnectRedis() {
	redisURL := getEnv("REDIS_URL", "")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
		log.Println("⚠️  REDIS_URL not set, using local Redis:", redisURL)
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		panic(fmt.Sprintf("❌ invalid REDIS_URL: %v", err))
	}
	if raw := getEnv("REDIS_POOL_SIZE", ""); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			panic(fmt.Sprintf("❌ invalid REDIS_POOL_SIZE %q", raw))
		}
		opt.PoolSize = size
	}

	RedisClient = redis.NewClient(opt)

	ctx, cancel := WithTimeout()
	defer cancel()
	if err := PingRedis(ctx); err != nil {
		panic(fmt.Sprintf("❌ failed to connect to Redis: %v", err))
	}
	log.Printf("✅ Connected to Redis (db %d, pool %d)", opt.DB, opt.PoolSize)
}

// PingRedis reports whether redis is reachable
func PingRedis(ctx context.Context) error {
	if RedisClient == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return RedisClient.Ping(ctx).Err()
}

func CloseRedis() {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Close(); err != nil {
		log.Printf("⚠️ Redis close: %v", err)
		return
	}
	log.Println("✅ Redis connection closed")
}
