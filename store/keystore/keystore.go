// Package keystore provides the durable keyed store the session container
// mirrors its state into. Values are strings (structured entries are
// JSON-encoded by the caller); a missing key reads back as "".
package keystore

import "context"

// Store is a string-keyed durable store.
//
// Contract:
//   - Get returns "" for a missing key, not an error.
//   - Set upserts.
//   - Clear removes every key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
