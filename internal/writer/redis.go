package writer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"macro-snapshot/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	snapshotKey = "snapshot:latest"
	snapshotTTL = 24 * time.Hour
)

// RedisClient is the slice of go-redis used by the publisher.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisWriter mirrors the published document into Redis for the serving
// surface. The file stays the document of record; a Redis failure is
// best-effort for the caller to log, never run-fatal.
type RedisWriter struct {
	client RedisClient
}

func NewRedisWriter(client RedisClient) *RedisWriter {
	return &RedisWriter{client: client}
}

// NewRedisClient connects to Redis from either a host:port address or a
// redis:// URL.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

func (w *RedisWriter) Publish(ctx context.Context, snapshot domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return w.client.Set(ctx, snapshotKey, data, snapshotTTL).Err()
}

// Latest returns the mirrored document, or nil when the key is empty.
func (w *RedisWriter) Latest(ctx context.Context) ([]byte, error) {
	data, err := w.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
