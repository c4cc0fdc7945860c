// Package storage provides the key/value stores backing the local cache.
package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// DB is the interface for key-value storage.
type DB interface {
	// Get returns ErrNotFound when the key does not exist.
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix.
	// The callback receives a copy of the key and value.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// TTLPutter is implemented by stores that can expire entries.
type TTLPutter interface {
	PutWithTTL(key, value []byte, ttl time.Duration) error
}
