package database

import (
	"fmt"

	"github.com/go-redis/redis"

	"github.com/xpanvictor/emovox/internal/config"
)

// NewRedis connects and pings once so a bad address fails at startup.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Pass,
		DB:       cfg.DB,
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", cfg.Addr, err)
	}
	return client, nil
}

// RedisPinger adapts a client to the health probe.
type RedisPinger struct {
	Client *redis.Client
}

func (p RedisPinger) Ping() error {
	return p.Client.Ping().Err()
}
