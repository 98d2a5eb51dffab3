package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"cartsync/internal/model"
)

// RunDB provides SQLite-based storage for sync run history.
// It manages connection pooling and provides methods for CRUD operations.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "cartsync.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Runs store one row per sync invocation with the full report as JSON
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		list_name TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		dry_run INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0,
		added INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		needs_review INTEGER NOT NULL DEFAULT 0,
		bot_blocked INTEGER NOT NULL DEFAULT 0,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_list ON runs(list_name);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);

	-- Run items store per-item outcomes for queries across runs
	CREATE TABLE IF NOT EXISTS run_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		raw TEXT NOT NULL,
		query TEXT,
		status TEXT NOT NULL,
		chosen_title TEXT,
		chosen_url TEXT,
		chosen_price TEXT,
		undersized INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY(run_id) REFERENCES runs(run_id)
	);

	CREATE INDEX IF NOT EXISTS idx_items_run ON run_items(run_id);
	CREATE INDEX IF NOT EXISTS idx_items_status ON run_items(status);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRunReport saves a complete run report, replacing any previous row
// with the same run ID.
func (rdb *RunDB) SaveRunReport(ctx context.Context, report *model.RunReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO runs (run_id, list_name, timestamp, dry_run, total, added, skipped, failed, needs_review, bot_blocked, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id) DO UPDATE SET
		list_name = excluded.list_name,
		timestamp = excluded.timestamp,
		dry_run = excluded.dry_run,
		total = excluded.total,
		added = excluded.added,
		skipped = excluded.skipped,
		failed = excluded.failed,
		needs_review = excluded.needs_review,
		bot_blocked = excluded.bot_blocked,
		report_json = excluded.report_json
	`

	_, err = rdb.db.ExecContext(ctx, query,
		report.RunID,
		report.ListName,
		report.Timestamp.UTC().Format("2006-01-02 15:04:05"),
		report.DryRun,
		report.Total,
		report.Added,
		report.Skipped,
		report.Failed,
		report.NeedsReview,
		report.BotBlocked,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err := rdb.db.ExecContext(ctx, "DELETE FROM run_items WHERE run_id = ?", report.RunID); err != nil {
		return fmt.Errorf("failed to clear run items: %w", err)
	}

	itemQuery := `
	INSERT INTO run_items (run_id, position, raw, query, status, chosen_title, chosen_url, chosen_price, undersized)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, item := range report.Items {
		_, err := rdb.db.ExecContext(ctx, itemQuery,
			report.RunID,
			i,
			item.Raw,
			item.Query,
			string(item.Status),
			item.ChosenTitle,
			item.ChosenURL,
			item.ChosenPrice,
			item.Undersized,
		)
		if err != nil {
			return fmt.Errorf("failed to save run item: %w", err)
		}
	}

	return nil
}

// GetRunReport retrieves a run report by its run ID.
// Returns nil without error when the run is not recorded.
func (rdb *RunDB) GetRunReport(ctx context.Context, runID string) (*model.RunReport, error) {
	query := `
	SELECT report_json FROM runs
	WHERE run_id = ?
	`

	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, runID).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// RunMetadata contains summary information about a recorded run.
// This is used for displaying run history without loading the full report.
type RunMetadata struct {
	// RunID is the unique identifier of the run.
	RunID string

	// ListName is the shopping list the run synced.
	ListName string

	// Timestamp is when the run started.
	Timestamp time.Time

	// DryRun reports whether the run skipped cart mutation.
	DryRun bool

	// Total is the number of items attempted or skipped.
	Total int

	// Added is the number of items added to the cart.
	Added int

	// Failed is the number of items that failed.
	Failed int

	// NeedsReview is the number of undersized items added.
	NeedsReview int

	// BotBlocked is the number of items never attempted after a block.
	BotBlocked int
}

// ListRuns retrieves metadata for the most recent runs, newest first.
// A limit of 0 or less returns all recorded runs.
func (rdb *RunDB) ListRuns(ctx context.Context, limit int) ([]RunMetadata, error) {
	query := `
	SELECT run_id, list_name, timestamp, dry_run, total, added, failed, needs_review, bot_blocked
	FROM runs
	ORDER BY timestamp DESC, id DESC
	`
	args := make([]interface{}, 0)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string

		err := rows.Scan(
			&meta.RunID,
			&meta.ListName,
			&timestamp,
			&meta.DryRun,
			&meta.Total,
			&meta.Added,
			&meta.Failed,
			&meta.NeedsReview,
			&meta.BotBlocked,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
