package annotations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type migration struct {
	version int
	name    string
	sql     string
}

// SQLiteBackend persists the store in a SQLite database.
type SQLiteBackend struct {
	db       *sql.DB
	path     string
	readOnly bool
	now      func() time.Time
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	backend := &SQLiteBackend{db: db, path: path, now: time.Now}
	if err := backend.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

// OpenSQLiteReadOnly opens the database at path without writing to it: no
// journal mode change, no migrations, and no file creation. A missing or
// never-migrated database loads as empty. Save fails with ErrReadOnly.
func OpenSQLiteReadOnly(ctx context.Context, path string) (*SQLiteBackend, error) {
	backend := &SQLiteBackend{path: path, readOnly: true, now: time.Now}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return backend, nil
	} else if err != nil {
		return nil, fmt.Errorf("stat sqlite db: %w", err)
	}

	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro&_pragma=busy_timeout(5000)"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db read-only: %w", err)
	}
	backend.db = db
	version, err := backend.SchemaVersion(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if version == 0 {
		_ = db.Close()
		backend.db = nil
	}
	return backend, nil
}

// Path returns the database file path.
func (b *SQLiteBackend) Path() string { return b.path }

// Load returns every persisted row ordered by id.
func (b *SQLiteBackend) Load(ctx context.Context) ([]Record, error) {
	if b.db == nil {
		return nil, nil
	}
	rows, err := b.db.QueryContext(ctx, "SELECT datapoint_id, score FROM annotations ORDER BY datapoint_id")
	if err != nil {
		return nil, fmt.Errorf("query annotations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			id    int64
			score sql.NullString
		)
		if err := rows.Scan(&id, &score); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		records = append(records, Record{ItemID: id, Label: score.String, Labeled: score.Valid})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotations: %w", err)
	}
	return records, nil
}

// Save writes every record in one transaction. updated_at only moves for rows
// whose score changed.
func (b *SQLiteBackend) Save(ctx context.Context, records []Record) error {
	if b.readOnly {
		return ErrReadOnly
	}
	stamp := b.now().UTC().Format(time.RFC3339Nano)
	return retryOnBusy(ctx, func() error {
		tx, err := b.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin save tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO annotations (datapoint_id, score, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(datapoint_id) DO UPDATE SET
    score = excluded.score,
    updated_at = CASE WHEN annotations.score IS excluded.score THEN annotations.updated_at ELSE excluded.updated_at END`)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		defer stmt.Close()

		for _, rec := range records {
			var score sql.NullString
			if rec.Labeled {
				score = sql.NullString{String: rec.Label, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, rec.ItemID, score, stamp); err != nil {
				return fmt.Errorf("upsert item %d: %w", rec.ItemID, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit save: %w", err)
		}
		return nil
	})
}

// UpdatedAt reports when the score of id last changed.
func (b *SQLiteBackend) UpdatedAt(ctx context.Context, id int64) (time.Time, error) {
	if b.db == nil {
		return time.Time{}, fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	var raw sql.NullString
	err := b.db.QueryRowContext(ctx, "SELECT updated_at FROM annotations WHERE datapoint_id = ?", id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query updated_at: %w", err)
	}
	if !raw.Valid {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw.String)
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// loadMigrations returns the embedded scripts ordered by their numeric
// prefix ("0002_labeled_index.sql" is version 2).
func loadMigrations() ([]migration, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var migrations []migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		prefix, _, _ := strings.Cut(entry.Name(), "_")
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: name must start with a positive version number", entry.Name())
		}
		data, err := migrationFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, migration{version: version, name: entry.Name(), sql: string(data)})
	}
	slices.SortFunc(migrations, func(a, b migration) int { return a.version - b.version })
	return migrations, nil
}

// applyMigrations runs every script newer than the database's user_version
// and advances user_version in the same transaction.
func (b *SQLiteBackend) applyMigrations(ctx context.Context) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current, start int
	if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&start); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	current = start
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
		current = m.version
	}
	if current == start {
		return nil
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", current)); err != nil {
		return fmt.Errorf("record schema version %d: %w", current, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

// SchemaVersion reports the applied migration version.
func (b *SQLiteBackend) SchemaVersion(ctx context.Context) (int, error) {
	if b.db == nil {
		return 0, nil
	}
	var version int
	if err := b.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := range busyRetryAttempts {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, busyRetryMaxBackoff)
	}
	return lastErr
}
