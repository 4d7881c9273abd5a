// Package kv provides the small string key-value stores the client store
// mirrors its patient list into.
package kv

import "context"

// Store is a best-effort string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
