package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore implements ports.TokenRevocationStore. A logged-out
// token id is kept until the token would have expired anyway.
// Key format: revoked:<jti>
type RevocationStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// Revoke marks id as revoked until the given instant. Tokens that are
// already past their expiry need no entry.
func (s *RevocationStore) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, key(id), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

// Ping reports whether Redis is reachable.
func (s *RevocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func key(id string) string {
	return "revoked:" + id
}
