// Package metadata is a small key/value repository over the SQLite
// "metadata" table. The SQLite credential store keeps one row per record
// field in it.
package metadata

import (
	"context"
)

// Repository is the key/value surface used by the credential store.
// Get returns (nil, nil) for an absent key; Delete of an absent key succeeds.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, keys ...string) (map[string][]byte, error)
}
