package filestore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jo-hoe/magickpad/internal/files"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps contents in a hash and the insertion order in a sorted set
// scored by a per-store sequence.
type RedisStore struct {
	client   *redis.Client
	prefix   string
	contents string
	order    string
	seq      string
}

// NewRedisStore connects with a redis:// URL; all keys start with prefix and
// are removed on Close.
func NewRedisStore(url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis connection string: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return &RedisStore{
		client:   client,
		prefix:   prefix,
		contents: prefix + "contents",
		order:    prefix + "order",
		seq:      prefix + "seq",
	}, nil
}

func (r *RedisStore) AddFiles(ctx context.Context, collection []files.File) error {
	if len(collection) == 0 {
		return nil
	}
	last, err := r.client.IncrBy(ctx, r.seq, int64(len(collection))).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve sequence: %w", err)
	}
	first := last - int64(len(collection)) + 1

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, f := range collection {
			pipe.HSet(ctx, r.contents, f.Name, f.Content)
			// NX keeps the original position of a replaced name
			pipe.ZAddNX(ctx, r.order, redis.Z{Score: float64(first + int64(i)), Member: f.Name})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store files: %w", err)
	}
	return nil
}

func (r *RedisStore) GetAll(ctx context.Context) ([]files.File, error) {
	names, err := r.client.ZRange(ctx, r.order, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read file order: %w", err)
	}
	out := []files.File{}
	if len(names) == 0 {
		return out, nil
	}

	values, err := r.client.HMGet(ctx, r.contents, names...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			slog.Warn("filestore: ordered name has no content", "name", names[i])
			continue
		}
		out = append(out, files.File{Name: names[i], Content: []byte(s)})
	}
	return out, nil
}

func (r *RedisStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.client.Del(ctx, r.contents, r.order, r.seq).Err(); err != nil {
		slog.Warn("filestore: failed to remove redis keys", "prefix", r.prefix, "error", err)
	}
	return r.client.Close()
}
