package localcache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/checkmarble/marble-enrichment/models"
	"github.com/checkmarble/marble-enrichment/repositories/clock"
	"github.com/checkmarble/marble-enrichment/repositories/localstore"
	"github.com/checkmarble/marble-enrichment/utils"
	"github.com/cockroachdb/errors"
)

const (
	KeyNamespace  = "enrichment_cache"
	SchemaVersion = "v1"

	EntryTTL = 30 * 24 * time.Hour

	// share of the namespace removed when the store runs out of space, rounded up
	EvictionRatio = 0.25
)

// StoreOpener opens the backing store. It is called at most once, on first use.
type StoreOpener func(ctx context.Context) (localstore.KeyValueStore, error)

// LocalCache is the per-instance cache tier. It never returns an error to its
// callers: storage failures are logged and read as misses.
type LocalCache struct {
	open  StoreOpener
	clock clock.Clock

	once    sync.Once
	store   localstore.KeyValueStore
	openErr error
}

func New(open StoreOpener, clk clock.Clock) *LocalCache {
	if clk == nil {
		clk = clock.New()
	}
	return &LocalCache{
		open:  open,
		clock: clk,
	}
}

// NewWithStore wraps an already opened store.
func NewWithStore(store localstore.KeyValueStore, clk clock.Clock) *LocalCache {
	return New(func(context.Context) (localstore.KeyValueStore, error) { return store, nil }, clk)
}

func (c *LocalCache) backingStore(ctx context.Context) (localstore.KeyValueStore, error) {
	c.once.Do(func() {
		c.store, c.openErr = c.open(ctx)
		if c.openErr != nil {
			c.openErr = errors.Mark(errors.Wrap(c.openErr, "could not open local cache store"), models.StorageError)
			utils.LoggerFromContext(ctx).ErrorContext(ctx, c.openErr.Error())
		}
	})
	return c.store, c.openErr
}

// IsAvailable reports whether the backing store could be opened.
func (c *LocalCache) IsAvailable(ctx context.Context) bool {
	_, err := c.backingStore(ctx)
	return err == nil
}

func StorageKey(key models.LookupKey) string {
	return fmt.Sprintf("%s_%s_%s_%s_%s",
		KeyNamespace, SchemaVersion, key.EntityType, key.OrganizationId, key.Identifier())
}

func (c *LocalCache) GetPerson(ctx context.Context, key models.LookupKey) (*models.CacheEntry[models.PersonProfile], bool) {
	return get[models.PersonProfile](ctx, c, key)
}

func (c *LocalCache) GetCompany(ctx context.Context, key models.LookupKey) (*models.CacheEntry[models.CompanyProfile], bool) {
	return get[models.CompanyProfile](ctx, c, key)
}

func (c *LocalCache) SetPerson(ctx context.Context, key models.LookupKey, profile models.PersonProfile, likelihood int) {
	set(ctx, c, key, profile, likelihood)
}

func (c *LocalCache) SetCompany(ctx context.Context, key models.LookupKey, profile models.CompanyProfile, likelihood int) {
	set(ctx, c, key, profile, likelihood)
}

func get[T any](ctx context.Context, c *LocalCache, key models.LookupKey) (*models.CacheEntry[T], bool) {
	logger := utils.LoggerFromContext(ctx)
	storageKey := StorageKey(key)

	entry, ok := func() (*models.CacheEntry[T], bool) {
		store, err := c.backingStore(ctx)
		if err != nil {
			return nil, false
		}

		raw, found, err := store.Get(ctx, storageKey)
		if err != nil {
			logger.WarnContext(ctx, "could not read local cache entry", "error", err.Error())
			return nil, false
		}
		if !found {
			return nil, false
		}

		var entry models.CacheEntry[T]
		if err := json.Unmarshal(raw, &entry); err != nil {
			logger.WarnContext(ctx, "dropping unreadable local cache entry", "key", storageKey)
			c.remove(ctx, store, storageKey)
			return nil, false
		}

		switch {
		case entry.OrganizationId != key.OrganizationId:
			logger.WarnContext(ctx, "dropping local cache entry owned by another organization", "key", storageKey)
			c.remove(ctx, store, storageKey)
			return nil, false
		case entry.SchemaVersion != SchemaVersion:
			c.remove(ctx, store, storageKey)
			return nil, false
		case c.clock.Now().Sub(entry.Timestamp) >= EntryTTL:
			c.remove(ctx, store, storageKey)
			return nil, false
		}

		return &entry, true
	}()

	result := "miss"
	if ok {
		result = "hit"
	}
	utils.MetricCacheLookups.WithLabelValues("local", string(key.EntityType), result).Inc()

	return entry, ok
}

func set[T any](ctx context.Context, c *LocalCache, key models.LookupKey, profile T, likelihood int) {
	logger := utils.LoggerFromContext(ctx)

	store, err := c.backingStore(ctx)
	if err != nil {
		return
	}

	raw, err := json.Marshal(models.CacheEntry[T]{
		Payload:        profile,
		Timestamp:      c.clock.Now(),
		OrganizationId: key.OrganizationId,
		SchemaVersion:  SchemaVersion,
		Likelihood:     likelihood,
	})
	if err != nil {
		logger.WarnContext(ctx, "could not serialize local cache entry", "error", err.Error())
		return
	}

	storageKey := StorageKey(key)

	err = store.Set(ctx, storageKey, raw)
	if errors.Is(err, localstore.ErrQuotaExceeded) {
		if _, evictErr := c.EvictOldest(ctx); evictErr != nil {
			logger.WarnContext(ctx, "could not evict local cache entries", "error", evictErr.Error())
		}
		err = store.Set(ctx, storageKey, raw)
	}
	if err != nil {
		logger.WarnContext(ctx, "dropping local cache write", "key", storageKey, "error", err.Error())
	}
}

func (c *LocalCache) remove(ctx context.Context, store localstore.KeyValueStore, storageKey string) {
	if err := store.Remove(ctx, storageKey); err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "could not delete local cache entry",
			"key", storageKey, "error", err.Error())
	}
}

type entryAge struct {
	key       string
	timestamp time.Time
}

// EvictOldest deletes the oldest quarter of the namespace, rounded up. Entries whose
// timestamp cannot be read are treated as the oldest.
func (c *LocalCache) EvictOldest(ctx context.Context) (int, error) {
	store, err := c.backingStore(ctx)
	if err != nil {
		return 0, err
	}

	keys, err := store.Keys(ctx, KeyNamespace+"_")
	if err != nil {
		return 0, errors.Mark(err, models.StorageError)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	ages := make([]entryAge, 0, len(keys))
	for _, key := range keys {
		age := entryAge{key: key}

		raw, found, err := store.Get(ctx, key)
		if err == nil && found {
			var header struct {
				Timestamp time.Time `json:"timestamp"`
			}
			if json.Unmarshal(raw, &header) == nil {
				age.timestamp = header.Timestamp
			}
		}
		ages = append(ages, age)
	}

	sort.SliceStable(ages, func(i, j int) bool {
		return ages[i].timestamp.Before(ages[j].timestamp)
	})

	count := int(math.Ceil(float64(len(ages)) * EvictionRatio))

	evicted := 0
	for _, age := range ages[:count] {
		if err := store.Remove(ctx, age.key); err != nil {
			return evicted, errors.Mark(err, models.StorageError)
		}
		evicted++
	}

	utils.MetricLocalCacheEvictions.Add(float64(evicted))
	utils.LoggerFromContext(ctx).InfoContext(ctx, "evicted local cache entries",
		"evicted", evicted, "total", len(ages))

	return evicted, nil
}

// ClearAll removes every entry of the namespace, whatever its organization.
func (c *LocalCache) ClearAll(ctx context.Context) error {
	return c.removeUnder(ctx, KeyNamespace+"_")
}

// ClearOrganization removes the entries of one organization, of every entity type.
func (c *LocalCache) ClearOrganization(ctx context.Context, organizationId string) error {
	if organizationId == "" {
		return errors.Wrap(models.BadParameterError, "organization id is required to clear the local cache")
	}
	for _, entityType := range []models.EntityType{models.EntityTypePerson, models.EntityTypeCompany} {
		prefix := fmt.Sprintf("%s_%s_%s_%s_", KeyNamespace, SchemaVersion, entityType, organizationId)
		if err := c.removeUnder(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}

func (c *LocalCache) removeUnder(ctx context.Context, prefix string) error {
	store, err := c.backingStore(ctx)
	if err != nil {
		return err
	}

	keys, err := store.Keys(ctx, prefix)
	if err != nil {
		return errors.Mark(err, models.StorageError)
	}

	for _, key := range keys {
		if err := store.Remove(ctx, key); err != nil {
			return errors.Mark(err, models.StorageError)
		}
	}

	return nil
}

// Close releases the backing store when it holds resources, such as a sqlite file.
func (c *LocalCache) Close() error {
	if c.store == nil {
		return nil
	}
	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
