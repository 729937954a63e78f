package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Backend over a single redis key.
type Redis[D any] struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
	codec  Codec[D]
}

// NewRedis builds a backend persisting under key. The client stays owned by
// the caller.
func NewRedis[D any](client redis.UniversalClient, key string) *Redis[D] {
	return &Redis[D]{client: client, key: key, codec: JSONCodec[D]{}}
}

// WithTTL makes future writes expire after ttl.
func (r *Redis[D]) WithTTL(ttl time.Duration) *Redis[D] {
	r.ttl = ttl
	return r
}

// WithCodec replaces the default JSON codec.
func (r *Redis[D]) WithCodec(codec Codec[D]) *Redis[D] {
	r.codec = codec
	return r
}

// Read implements Backend.
func (r *Redis[D]) Read(ctx context.Context) (D, error) {
	var zero D
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("store: read %q: %w", r.key, err)
	}
	return r.codec.Decode(data)
}

// Write implements Backend.
func (r *Redis[D]) Write(ctx context.Context, value D) error {
	data, err := r.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", r.key, err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("store: write %q: %w", r.key, err)
	}
	return nil
}
