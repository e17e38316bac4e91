// Package cache stores fetched prefix automata on the host side.
//
// The browser editor kept every backend response in a global query cache
// keyed by ["event-logs", id, "prefix-automaton"]. Here that cache is an
// explicit dependency of the backend client, with one interface and several
// storage implementations:
//
//   - [FileCache]: JSON files under the user cache directory (CLI default)
//   - [RedisCache]: shared cache for `paeditor serve` deployments
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: disables caching
//
// Keys are built with [Key] and friends so every implementation sees the
// same key space. [Scoped] prefixes keys, which keeps automata fetched from
// different backends apart.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); an error means the store itself
// failed. A ttl of 0 in Set means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Options selects and configures a cache implementation for [Open].
type Options struct {
	Backend   string // One of the Backend* constants; empty means file
	Dir       string // FileCache directory
	RedisAddr string // host:port of the Redis server
	MongoURI  string // mongodb:// connection string
}

// Open creates the cache named by opts.Backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		return NewRedisCache(opts.RedisAddr), nil
	case BackendMongo:
		c, err := NewMongoCache(ctx, opts.MongoURI)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, &UnknownBackendError{Backend: opts.Backend}
	}
}
