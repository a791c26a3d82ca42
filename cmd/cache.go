package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/internal/iocache"
	"github.com/huangsam/digger/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	if err := iocache.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	cfg.CacheTTL = contract.DefaultCacheTTL
	if raw := viper.GetString("cache-ttl"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return fmt.Errorf("invalid --cache-ttl value %q", raw)
		}
		cfg.CacheTTL = ttl
	}
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization instead of the full
// sharedSetup used by the other commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the OpenDigger response cache",
	Long: `Manage the cache of fetched OpenDigger responses.

Digger keeps every remote response for --cache-ttl (24h by default) so repeated
commands do not hit the network. Local files are never cached.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data
  prune  - Remove entries older than --cache-ttl

Examples:
  digger cache status
  digger cache prune --cache-ttl 6h`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached responses",
	Long: `Delete all cached responses from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  digger cache clear

  # Clear MySQL cache (set connection string via env variable)
  DIGGER_CACHE_BACKEND=mysql DIGGER_CACHE_DB_CONNECT="..." digger cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite handle before its file is removed
		iocache.CloseCaching()
		if err := iocache.ClearCache(cfg.CacheBackend, iocache.GetDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, entry count, newest and oldest entry and table size.

Examples:
  digger cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetResponseStore()
		if store == nil {
			iocache.PrintCacheStatus(os.Stdout, schema.CacheStatus{Backend: string(cfg.CacheBackend)})
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// cachePruneCmd removes expired entries.
var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached responses older than --cache-ttl",
	Long: `Delete entries whose timestamp is older than --cache-ttl. Expired entries are
already ignored on read; pruning only reclaims space.

Examples:
  digger cache prune
  digger cache prune --cache-ttl 72h`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetResponseStore()
		if store == nil {
			fmt.Println("No durable cache configured.")
			return
		}
		removed, err := store.Prune(time.Now().Add(-cfg.CacheTTL))
		if err != nil {
			contract.LogFatal("Failed to prune cache", err)
		}
		fmt.Printf("Pruned %d cached responses.\n", removed)
	},
}
