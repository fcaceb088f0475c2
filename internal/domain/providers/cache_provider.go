package providers

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("key not found")

// CacheProvider defines the interface for key-value storage operations
type CacheProvider interface {
	// Get retrieves a value; a missing key yields an error wrapping ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with expiration; zero means no expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists
	Exists(ctx context.Context, key string) (bool, error)
}
