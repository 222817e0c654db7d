package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/xpanvictor/emovox/pkg/Logger"
)

// RedisStore keeps each session as a hash of msgpack records under session:<id>.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *Logger.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, logger *Logger.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: logger.Named("sessions")}
}

func sessionKey(id string) string { return "session:" + id }

func (r *RedisStore) Put(ctx context.Context, sessionID string, rec Record) error {
	payload, err := msgpack.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("encode chunk %d: %w", rec.ChunkIndex, err)
	}

	key := sessionKey(sessionID)
	pipe := r.client.WithContext(ctx).TxPipeline()
	pipe.HSet(key, strconv.Itoa(rec.ChunkIndex), payload)
	if r.ttl > 0 {
		pipe.Expire(key, r.ttl)
	}
	if _, err := pipe.Exec(); err != nil {
		return fmt.Errorf("store chunk %d of %s: %w", rec.ChunkIndex, sessionID, err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, sessionID string, chunkIndex int) (Record, error) {
	c := r.client.WithContext(ctx)
	key := sessionKey(sessionID)

	n, err := c.Exists(key).Result()
	if err != nil {
		return Record{}, err
	}
	if n == 0 {
		return Record{}, ErrSessionNotFound
	}

	payload, err := c.HGet(key, strconv.Itoa(chunkIndex)).Bytes()
	if err == redis.Nil {
		return Record{}, ErrChunkNotFound
	}
	if err != nil {
		return Record{}, err
	}

	var rec Record
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return Record{}, fmt.Errorf("decode chunk %d: %w", chunkIndex, err)
	}
	if r.ttl > 0 {
		// the record was read, so a failed refresh only shortens the session
		if err := c.Expire(key, r.ttl).Err(); err != nil {
			r.logger.Warnf("session %s: refreshing ttl: %v", sessionID, err)
		}
	}
	return rec, nil
}

func (r *RedisStore) Close(ctx context.Context, sessionID string) error {
	n, err := r.client.WithContext(ctx).Del(sessionKey(sessionID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
