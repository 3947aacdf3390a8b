package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/internal/runstore"
	"github.com/davidkimai/recursive-distill/schema"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize both stores with the loaded config
	if err := runstore.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize stores: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreConnect = connStr

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetLedgerDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on run ledger and fetch cache management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by analysis commands. This avoids Git repo validation
// and complex config processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the run ledger and platform fetch cache",
	Long: `Manage the persistence layer behind distill runs.

Two stores share the configured backend:
- Run ledger: one row per engine run with scores and gate verdict
- Fetch cache: platform responses cached by request URL

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all persisted store data
  migrate - Run database schema migrations

Examples:
  # Check store status
  distill store status

  # Clear stores after switching repositories
  distill store clear`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the run ledger and fetch cache.

Displays:
- Backend type and connection status for each store
- Total, completed and failed run counts
- Last and oldest run timestamps
- Fetch cache entry counts and timestamps

Examples:
  # Check store status
  distill store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ledgerStatus, err := runstore.Manager.GetLedgerStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get ledger status", err)
		}
		runstore.PrintLedgerStatus(ledgerStatus)

		fmt.Println()
		cacheStatus, err := runstore.Manager.GetFetchStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get fetch cache status", err)
		}
		runstore.PrintCacheStatus(cacheStatus)
	},
}

// storeClearCmd clears the store data.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run ledger and fetch cache data",
	Long: `Delete all persisted run history and cached platform responses.

WARNING: This action cannot be undone.

For SQLite: Deletes the database files
For MySQL/PostgreSQL: Drops both store tables

Examples:
  # Clear SQLite stores (default)
  distill store clear

  # Clear MySQL stores (set connection string via env variable)
  DISTILL_STORE_BACKEND=mysql DISTILL_STORE_CONNECT="..." distill store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ClearStores(cfg.StoreBackend, cfg.StoreConnect); err != nil {
			contract.LogFatal("Failed to clear stores", err)
		}
		fmt.Println("Stores cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the stores.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run ledger and fetch cache.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  distill store migrate

  # Migrate to specific version
  distill store migrate --target-version 1

  # Rollback to initial state
  distill store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateStores(cfg.StoreBackend, cfg.StoreConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
