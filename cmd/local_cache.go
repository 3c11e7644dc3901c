package cmd

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/checkmarble/marble-enrichment/repositories/clock"
	"github.com/checkmarble/marble-enrichment/repositories/localstore"
	"github.com/checkmarble/marble-enrichment/usecases/localcache"
	"github.com/checkmarble/marble-enrichment/utils"
)

// ClearLocalCache wipes the configured local store for every organization. Tenants can
// only clear their own entries through the api; this is the operator path.
func ClearLocalCache() error {
	localConfig := readServerConfig().localCache
	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	cache := localcache.New(func(ctx context.Context) (localstore.KeyValueStore, error) {
		return localstore.Open(ctx, localConfig.Driver, localConfig.Path, localConfig.CapacityBytes)
	}, clock.New())
	defer cache.Close() //nolint:errcheck

	if err := cache.ClearAll(ctx); err != nil {
		return errors.Wrap(err, "could not clear the local cache")
	}

	logger.InfoContext(ctx, "local cache cleared", "driver", localConfig.Driver)
	return nil
}
