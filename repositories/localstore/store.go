// Package localstore holds the key/value stores backing the per-instance cache tier.
// Stores are bounded in bytes: a write that would go over capacity fails with
// ErrQuotaExceeded and leaves the store unchanged.
package localstore

import (
	"context"

	"github.com/cockroachdb/errors"
)

var ErrQuotaExceeded = errors.New("local store quota exceeded")

// ErrEntryTooLarge is returned for an entry that cannot fit even in an empty store.
var ErrEntryTooLarge = errors.New("local store entry is larger than the store capacity")

type KeyValueStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	// Keys lists every key starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

func entrySize(key string, value []byte) int {
	return len(key) + len(value)
}

const (
	DriverMemory = "memory"
	DriverSqlite = "sqlite"
)

// Open builds the store selected by driver. path is only used by the sqlite driver.
func Open(ctx context.Context, driver, path string, capacityBytes int) (KeyValueStore, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryStore(capacityBytes), nil
	case DriverSqlite:
		if path == "" {
			return nil, errors.New("the sqlite local store needs a file path")
		}
		return OpenSqliteStore(ctx, path, capacityBytes)
	}
	return nil, errors.Newf("unknown local store driver %q", driver)
}
