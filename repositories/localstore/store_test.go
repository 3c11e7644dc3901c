package localstore

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSqliteStore(t *testing.T, capacityBytes int) *SqliteStore {
	t.Helper()

	store, err := OpenSqliteStore(context.Background(), filepath.Join(t.TempDir(), "local_cache.db"), capacityBytes)
	require.NoError(t, err)

	t.Cleanup(func() { store.Close() })

	return store
}

func storesUnderTest(t *testing.T, capacityBytes int) map[string]KeyValueStore {
	return map[string]KeyValueStore{
		"memory": NewMemoryStore(capacityBytes),
		"sqlite": setupSqliteStore(t, capacityBytes),
	}
}

func TestStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()

	for name, store := range storesUnderTest(t, 0) {
		t.Run(name, func(t *testing.T) {
			_, found, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Set(ctx, "a", []byte("first")))
			require.NoError(t, store.Set(ctx, "a", []byte("second")))

			value, found, err := store.Get(ctx, "a")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "second", string(value))

			require.NoError(t, store.Remove(ctx, "a"))
			require.NoError(t, store.Remove(ctx, "a"))

			_, found, err = store.Get(ctx, "a")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestStore_KeysUnderPrefix(t *testing.T) {
	ctx := context.Background()

	for name, store := range storesUnderTest(t, 0) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "ns_one", []byte("1")))
			require.NoError(t, store.Set(ctx, "ns_twö", []byte("2")))
			require.NoError(t, store.Set(ctx, "other_three", []byte("3")))

			keys, err := store.Keys(ctx, "ns_")
			require.NoError(t, err)
			sort.Strings(keys)
			assert.Equal(t, []string{"ns_one", "ns_twö"}, keys)

			keys, err = store.Keys(ctx, "nothing")
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestStore_QuotaExceeded(t *testing.T) {
	ctx := context.Background()

	// key "k1" + 8 bytes of value = 10 bytes per entry
	for name, store := range storesUnderTest(t, 25) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "k1", []byte("12345678")))
			require.NoError(t, store.Set(ctx, "k2", []byte("12345678")))

			err := store.Set(ctx, "k3", []byte("12345678"))
			assert.ErrorIs(t, err, ErrQuotaExceeded)

			_, found, err := store.Get(ctx, "k3")
			require.NoError(t, err)
			assert.False(t, found)

			// overwriting an existing key only counts the difference
			require.NoError(t, store.Set(ctx, "k2", []byte("1234567890123")))

			require.NoError(t, store.Remove(ctx, "k1"))
			require.NoError(t, store.Set(ctx, "k3", []byte("12345678")))
		})
	}
}

func TestStore_EntryLargerThanCapacity(t *testing.T) {
	ctx := context.Background()

	for name, store := range storesUnderTest(t, 25) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "k1", []byte("12345678")))

			// "big" + 30 bytes of value = 33 bytes, over the capacity of an empty store
			err := store.Set(ctx, "big", []byte("123456789012345678901234567890"))
			assert.ErrorIs(t, err, ErrEntryTooLarge)
			assert.NotErrorIs(t, err, ErrQuotaExceeded)

			value, found, err := store.Get(ctx, "k1")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []byte("12345678"), value)
		})
	}
}

func TestMemoryStore_UsedBytes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	require.NoError(t, store.Set(ctx, "ab", []byte("cd")))
	require.NoError(t, store.Set(ctx, "ab", []byte("cdef")))
	assert.Equal(t, 6, store.UsedBytes())

	require.NoError(t, store.Remove(ctx, "ab"))
	assert.Equal(t, 0, store.UsedBytes())
}

func TestSqliteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local_cache.db")

	store, err := OpenSqliteStore(ctx, path, 0)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "kept", []byte("value")))
	require.NoError(t, store.Close())

	store, err = OpenSqliteStore(ctx, path, 0)
	require.NoError(t, err)
	defer store.Close()

	value, found, err := store.Get(ctx, "kept")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value", string(value))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, DriverMemory, "", 100)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open(ctx, DriverSqlite, filepath.Join(t.TempDir(), "cache.db"), 0)
	require.NoError(t, err)
	require.IsType(t, &SqliteStore{}, store)
	require.NoError(t, store.(*SqliteStore).Close())

	_, err = Open(ctx, DriverSqlite, "", 0)
	assert.Error(t, err)

	_, err = Open(ctx, "redis", "", 0)
	assert.Error(t, err)
}
