package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ByteStore persists opaque byte blobs, keyed by string. The blockchain
// descriptor cache uses it so resolved contract descriptors survive process
// restarts.
type ByteStore struct {
	client *redis.Client
}

// NewByteStore wraps a redis client. Pass nil to use the package client.
func NewByteStore(client *redis.Client) *ByteStore {
	if client == nil {
		client = GetClient()
	}
	return &ByteStore{client: client}
}

// GetBytes returns the stored blob, reporting a miss on any error. Callers
// treat a miss as cache-cold, never as a failure.
func (s *ByteStore) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

// SetBytes stores the blob. ttl of zero means no expiry. Write failures are
// swallowed: the store is an optimization, not a source of truth.
func (s *ByteStore) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_ = s.client.Set(ctx, key, value, ttl).Err()
}
