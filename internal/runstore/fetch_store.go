package runstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"  // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib"  // PostgreSQL driver
	_ "modernc.org/sqlite"              // SQLite driver

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// FetchStoreImpl caches platform responses keyed by request URL using
// various database backends.
type FetchStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.CacheStore = &FetchStoreImpl{} // Compile-time check

// NewFetchStore initializes and returns a new fetch cache store based
// on the backend type.
func NewFetchStore(backend schema.DatabaseBackend, connStr string) (contract.CacheStore, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(fetchCacheTable); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		// Return a no-op store for disabled caching
		return &FetchStoreImpl{db: nil, backend: backend}, nil
	}

	db, err := openBackendDB(backend, connStr, contract.GetFetchDBFilePath())
	if err != nil {
		return nil, err
	}

	// Create the table schema
	query := getCreateFetchCacheQuery(backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", fetchCacheTable, err)
	}

	return &FetchStoreImpl{db: db, backend: backend}, nil
}

// getCreateFetchCacheQuery returns the CREATE TABLE query for the given backend.
func getCreateFetchCacheQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(fetchCacheTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				fetch_key VARCHAR(512) PRIMARY KEY,
				fetch_body MEDIUMBLOB NOT NULL,
				stored_at BIGINT NOT NULL,
				expires_at BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				fetch_key TEXT PRIMARY KEY,
				fetch_body BYTEA NOT NULL,
				stored_at BIGINT NOT NULL,
				expires_at BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				fetch_key TEXT PRIMARY KEY,
				fetch_body BLOB NOT NULL,
				stored_at INTEGER NOT NULL,
				expires_at INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Get retrieves a cached body and its expiry by key. A cache miss
// returns a nil body and no error.
func (fs *FetchStoreImpl) Get(key string) ([]byte, int64, error) {
	// Always miss for NoneBackend
	if fs.backend == schema.NoneBackend || fs.db == nil {
		return nil, 0, nil
	}

	quotedTableName := quoteTableName(fetchCacheTable, fs.backend)
	placeholder := placeholderFor(fs.backend, 1)
	query := fmt.Sprintf(`SELECT fetch_body, expires_at FROM %s WHERE fetch_key = %s`, quotedTableName, placeholder)

	var body []byte
	var expiresAt int64
	if err := fs.db.QueryRow(query, key).Scan(&body, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	return body, expiresAt, nil
}

// Set inserts or replaces a cached response body.
func (fs *FetchStoreImpl) Set(key string, body []byte, storedAt, expiresAt int64) error {
	// Skip for NoneBackend
	if fs.backend == schema.NoneBackend || fs.db == nil {
		return nil
	}

	query := fs.getUpsertQuery()
	_, err := fs.db.Exec(query, key, body, storedAt, expiresAt)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (fs *FetchStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(fetchCacheTable, fs.backend)
	switch fs.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (fetch_key, fetch_body, stored_at, expires_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE fetch_body = new.fetch_body, stored_at = new.stored_at, expires_at = new.expires_at`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (fetch_key, fetch_body, stored_at, expires_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (fetch_key) DO UPDATE SET fetch_body = EXCLUDED.fetch_body, stored_at = EXCLUDED.stored_at, expires_at = EXCLUDED.expires_at`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (fetch_key, fetch_body, stored_at, expires_at) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Clear drops every cached entry.
func (fs *FetchStoreImpl) Clear() error {
	if fs.backend == schema.NoneBackend || fs.db == nil {
		return nil
	}
	query := fmt.Sprintf("DELETE FROM %s", quoteTableName(fetchCacheTable, fs.backend))
	_, err := fs.db.Exec(query)
	return err
}

// Close closes the underlying DB connection.
func (fs *FetchStoreImpl) Close() error {
	if fs.db != nil {
		return fs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the fetch cache.
func (fs *FetchStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(fs.backend),
		Connected: fs.db != nil,
	}

	if fs.backend == schema.NoneBackend || fs.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(fetchCacheTable, fs.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := fs.db.QueryRow(countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	lastQuery := fmt.Sprintf("SELECT MAX(stored_at) FROM %s", quotedTableName)
	var lastTs int64
	if err := fs.db.QueryRow(lastQuery).Scan(&lastTs); err != nil {
		return status, fmt.Errorf("failed to get last entry time: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)

	oldestQuery := fmt.Sprintf("SELECT MIN(stored_at) FROM %s", quotedTableName)
	var oldestTs int64
	if err := fs.db.QueryRow(oldestQuery).Scan(&oldestTs); err != nil {
		return status, fmt.Errorf("failed to get oldest entry time: %w", err)
	}
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	return status, nil
}
