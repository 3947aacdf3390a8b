// Package runstore persists run observability data: the SQL run ledger
// and the platform fetch cache. Engine semantics never read from it.
package runstore

import (
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// Table names for run tracking and fetch caching.
const (
	runsTable       = "distill_runs"
	fetchCacheTable = "distill_fetch_cache"
)

// StoreManagerImpl manages the fetch cache and run ledger stores.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	fetch        contract.CacheStore
	ledger       contract.LedgerStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetFetchStore returns the platform fetch CacheStore.
func (mgr *StoreManagerImpl) GetFetchStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.fetch
}

// GetLedgerStore returns the run LedgerStore.
func (mgr *StoreManagerImpl) GetLedgerStore() contract.LedgerStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.ledger
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global store manager. Both stores share
// the configured backend; with SQLite and an empty connection string
// each store uses its own database file under the home directory.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		fetchStore, err := NewFetchStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize fetch cache: %w", err)
			return
		}

		ledgerStore, err := NewLedgerStore(backend, connStr)
		if err != nil {
			_ = fetchStore.Close()
			initErr = fmt.Errorf("failed to initialize run ledger: %w", err)
			return
		}

		Manager.Lock()
		Manager.fetch = fetchStore
		Manager.ledger = ledgerStore
		Manager.Unlock()
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.fetch != nil {
			_ = Manager.fetch.Close()
		}
		if Manager.ledger != nil {
			_ = Manager.ledger.Close()
		}
	})
}

// ClearStores drops the persisted ledger and fetch cache data.
// For SQLite, it deletes both database files.
// For MySQL/PostgreSQL, it drops the tables.
// For NoneBackend, it does nothing.
func ClearStores(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if connStr != "" {
			return removeDBFile(connStr)
		}
		if err := removeDBFile(contract.GetLedgerDBFilePath()); err != nil {
			return err
		}
		return removeDBFile(contract.GetFetchDBFilePath())

	case schema.MySQLBackend:
		return clearSQLTables("mysql", connStr)

	case schema.PostgreSQLBackend:
		return clearSQLTables("pgx", connStr)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// removeDBFile deletes a SQLite database file, ignoring a missing file.
func removeDBFile(dbFilePath string) error {
	if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
	}
	return nil
}

// clearSQLTables connects to the SQL database and drops both store
// tables if they exist.
func clearSQLTables(driverName, connStr string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	for _, tableName := range []string{runsTable, fetchCacheTable} {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", tableName, err)
		}
	}
	return nil
}

// validateTableName ensures that a table name only contains safe characters.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	matched, err := regexp.MatchString(`^[a-zA-Z_][a-zA-Z0-9_]*$`, name)
	if err != nil {
		return fmt.Errorf("error validating table name: %w", err)
	}
	if !matched {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("\"%s\"", name)
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite
		return fmt.Sprintf("\"%s\"", name)
	}
}

// openBackendDB opens and pings a database connection for the backend,
// falling back to the default SQLite path when connStr is empty.
func openBackendDB(backend schema.DatabaseBackend, connStr, defaultSQLitePath string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = defaultSQLitePath
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// placeholderFor returns the parameter placeholder for the backend.
func placeholderFor(backend schema.DatabaseBackend, position int) string {
	switch backend {
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("$%d", position)
	default: // SQLite and MySQL
		return "?"
	}
}
