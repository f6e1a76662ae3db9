package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultAttempts = 3
	retryBackoff    = 500 * time.Millisecond
)

// Config holds the connection settings for the revocation backend.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
	// Attempts bounds the startup pings; Redis often comes up after the API
	// in compose setups.
	Attempts int
}

// Connect dials Redis and pings it until it answers or the attempts run
// out. The returned client is owned by the caller.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	var err error
	for i := 0; i < attempts; i++ {
		if err = ping(ctx, client, timeout); err == nil {
			return client, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(retryBackoff * time.Duration(i+1)):
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("redis ping %s after %d attempts: %w", cfg.Addr, attempts, err)
}

func ping(ctx context.Context, client *redis.Client, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.Ping(pingCtx).Err()
}
