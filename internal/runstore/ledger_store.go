package runstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/schema"
)

// LedgerStoreImpl implements the LedgerStore interface. Run times are
// stored as RFC3339 strings on every backend so the ledger schema
// stays aligned with the embedded migrations.
type LedgerStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.LedgerStore = &LedgerStoreImpl{} // Compile-time check

// NewLedgerStore creates a new LedgerStore with the specified backend.
func NewLedgerStore(backend schema.DatabaseBackend, connStr string) (contract.LedgerStore, error) {
	if err := validateTableName(runsTable); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &LedgerStoreImpl{db: nil, backend: backend}, nil
	}

	db, err := openBackendDB(backend, connStr, contract.GetLedgerDBFilePath())
	if err != nil {
		return nil, err
	}

	// Create the table schema
	query := getCreateRunsQuery(backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", runsTable, err)
	}

	return &LedgerStoreImpl{db: db, backend: backend}, nil
}

// getCreateRunsQuery returns the CREATE TABLE query for distill_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				repo VARCHAR(512) NOT NULL,
				start_time VARCHAR(64) NOT NULL,
				end_time VARCHAR(64),
				run_duration_ms INT,
				status VARCHAR(16) NOT NULL,
				overall_score DOUBLE,
				signal_score DOUBLE,
				feedback_score DOUBLE,
				bounded_score DOUBLE,
				elastic_score DOUBLE,
				passed TINYINT(1),
				min_passed TINYINT(1)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				repo TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INT,
				status TEXT NOT NULL,
				overall_score DOUBLE PRECISION,
				signal_score DOUBLE PRECISION,
				feedback_score DOUBLE PRECISION,
				bounded_score DOUBLE PRECISION,
				elastic_score DOUBLE PRECISION,
				passed BOOLEAN,
				min_passed BOOLEAN
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				repo TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				status TEXT NOT NULL,
				overall_score REAL,
				signal_score REAL,
				feedback_score REAL,
				bounded_score REAL,
				elastic_score REAL,
				passed INTEGER,
				min_passed INTEGER
			);
		`, quotedTableName)
	}
}

// BeginRun records the start of a run under its unique ID.
func (ls *LedgerStoreImpl) BeginRun(runID string, repo string, startTime time.Time) error {
	// Skip for NoneBackend
	if ls.backend == schema.NoneBackend || ls.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, ls.backend)

	var query string
	switch ls.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (run_id, repo, start_time, status) VALUES ($1, $2, $3, $4)`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (run_id, repo, start_time, status) VALUES (?, ?, ?, ?)`, quotedTableName)
	}

	if _, err := ls.db.Exec(query, runID, repo, formatRunTime(startTime), string(schema.RunningStatus)); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// EndRun updates the run with completion data: the publication gate
// verdict and the per-run minimum verdict. The report may be nil when
// the run failed before scoring.
func (ls *LedgerStoreImpl) EndRun(runID string, endTime time.Time, status schema.RunStatus, report *schema.CoherenceReport, passed bool, minPassed bool) error {
	// Skip for NoneBackend
	if ls.backend == schema.NoneBackend || ls.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, ls.backend)

	// First, get the start_time to calculate duration
	var query string
	switch ls.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName)
	}

	var startTimeStr string
	if err := ls.db.QueryRow(query, runID).Scan(&startTimeStr); err != nil {
		return fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
	}
	startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var overall, signalScore, feedback, bounded, elastic *float64
	var passedVal, minPassedVal *bool
	if report != nil {
		overall = &report.OverallScore
		signalScore = &report.Components.Signal
		feedback = &report.Components.Feedback
		bounded = &report.Components.Bounded
		elastic = &report.Components.Elastic
		passedVal = &passed
		minPassedVal = &minPassed
	}

	var updateQuery string
	switch ls.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, status = $3,
			overall_score = $4, signal_score = $5, feedback_score = $6, bounded_score = $7, elastic_score = $8, passed = $9, min_passed = $10
			WHERE run_id = $11`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, status = ?,
			overall_score = ?, signal_score = ?, feedback_score = ?, bounded_score = ?, elastic_score = ?, passed = ?, min_passed = ?
			WHERE run_id = ?`, quotedTableName)
	}

	args := []any{formatRunTime(endTime), durationMs, string(status), overall, signalScore, feedback, bounded, elastic, passedVal, minPassedVal, runID}
	if _, err := ls.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (ls *LedgerStoreImpl) Close() error {
	if ls.db != nil {
		return ls.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run ledger.
func (ls *LedgerStoreImpl) GetStatus() (schema.LedgerStatus, error) {
	status := schema.LedgerStatus{
		Backend:   string(ls.backend),
		Connected: ls.db != nil,
	}

	if ls.backend == schema.NoneBackend || ls.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(runsTable, ls.backend)

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := ls.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", quotedTableName)
		var lastRunTimeStr string
		if err := ls.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastRunTimeStr); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := time.Parse(time.RFC3339Nano, lastRunTimeStr)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", quotedTableName)
		var oldestRunTimeStr string
		if err := ls.db.QueryRow(oldestRunQuery).Scan(&oldestRunTimeStr); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		oldestRunTime, err := time.Parse(time.RFC3339Nano, oldestRunTimeStr)
		if err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		counts := map[schema.RunStatus]*int{
			schema.CompletedStatus: &status.CompletedRuns,
			schema.FailedStatus:    &status.FailedRuns,
		}
		for runStatus, dest := range counts {
			var countQuery string
			switch ls.backend {
			case schema.PostgreSQLBackend:
				countQuery = fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE status = $1", quotedTableName)
			default:
				countQuery = fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE status = ?", quotedTableName)
			}
			if err := ls.db.QueryRow(countQuery, string(runStatus)).Scan(dest); err != nil {
				return status, fmt.Errorf("failed to count %s runs: %w", runStatus, err)
			}
		}
	}

	return status, nil
}

// runTimeLayout is RFC3339 with fixed-width nanoseconds so that the
// lexicographic ORDER BY on start_time matches chronological order.
// RFC3339Nano drops trailing zeros and would break that.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatRunTime converts a time.Time to its stored representation.
func formatRunTime(t time.Time) string {
	return t.UTC().Format(runTimeLayout)
}
