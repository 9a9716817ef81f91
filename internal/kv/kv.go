// Package kv provides the key-value persistence boundary for analytics
// data. The service stores one JSON document per key, so the contract is
// deliberately small: whole-value get and set.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence contract injected into the analytics service.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
