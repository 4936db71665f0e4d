package app

import (
	"detailing-bot/internal/config"
	"detailing-bot/pkg/redis"
)

// RedisOptions maps the REDIS_* settings onto the client options.
func RedisOptions(cfg *config.Config) redis.Options {
	return redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   cfg.RedisPrefix,
		TTL:      cfg.RedisTTL,
	}
}
