// Package snapshot persists last-good query results so a restarted gateway
// can serve dashboards before its first upstream round trip.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Row is one persisted snapshot keyed by the canonical query key.
type Row struct {
	Key       string
	Payload   []byte
	FetchedAt time.Time
}

// Store is the SQL-backed snapshot repository. It speaks either embedded
// SQLite or a remote libsql database, chosen by configuration.
type Store struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
	remote bool
}

// NewStore opens the configured database, tunes its pool, and ensures the
// schema exists.
func NewStore(logger *logging.ChanneledLogger) (*Store, error) {
	var (
		db     *sql.DB
		remote bool
		err    error
	)

	if config.SnapshotDBURL != "" {
		connStr := config.SnapshotDBURL
		if config.SnapshotAuthToken != "" {
			connStr += "?authToken=" + config.SnapshotAuthToken
		}
		db, err = sql.Open("libsql", connStr)
		if err != nil {
			return nil, fmt.Errorf("libsql connection failed: %w", err)
		}
		remote = true
	} else {
		dbDir := filepath.Dir(config.SnapshotDBPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		db, err = sql.Open("sqlite3", config.SnapshotDBPath)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot database ping failed: %w", err)
	}

	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	store := &Store{db: db, logger: logger, remote: remote}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Snapshot().Info("Snapshot store ready", "backend", store.Backend())
	return store, nil
}

func (s *Store) ensureSchema() error {
	const schema = `
		CREATE TABLE IF NOT EXISTS query_snapshots (
			query_key  TEXT PRIMARY KEY,
			payload    BLOB NOT NULL,
			fetched_at TIMESTAMP NOT NULL
		)`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create snapshot schema: %w", err)
	}
	return nil
}

// Backend names the storage behind the store.
func (s *Store) Backend() string {
	if s.remote {
		return "libsql"
	}
	return "sqlite"
}

// SaveSnapshot upserts the latest payload for a key.
func (s *Store) SaveSnapshot(ctx context.Context, key string, payload []byte, fetchedAt time.Time) error {
	const query = `
		INSERT INTO query_snapshots (query_key, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(query_key) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`

	_, err := s.db.ExecContext(ctx, query, key, payload, fetchedAt.UTC())
	return err
}

// LoadByPrefix returns every snapshot whose key equals prefix or extends it,
// newest first. Canonical keys escape the separator inside parts, so string
// matching on the '/' boundary is exactly structural prefix matching.
func (s *Store) LoadByPrefix(ctx context.Context, prefix string) ([]Row, error) {
	if prefix == "" {
		return s.LoadAll(ctx)
	}

	const query = `
		SELECT query_key, payload, fetched_at
		FROM query_snapshots
		WHERE query_key = ? OR query_key LIKE ? ESCAPE '\'
		ORDER BY fetched_at DESC`

	rows, err := s.db.QueryContext(ctx, query, prefix, escapeLike(prefix)+"/%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// LoadAll returns every persisted snapshot, newest first.
func (s *Store) LoadAll(ctx context.Context) ([]Row, error) {
	const query = `
		SELECT query_key, payload, fetched_at
		FROM query_snapshots
		ORDER BY fetched_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// DeleteByPrefix drops every snapshot under prefix. Implements
// query.Persister alongside SaveSnapshot.
func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	const query = `
		DELETE FROM query_snapshots
		WHERE query_key = ? OR query_key LIKE ? ESCAPE '\'`

	result, err := s.db.ExecContext(ctx, query, prefix, escapeLike(prefix)+"/%")
	if err != nil {
		return err
	}

	if removed, err := result.RowsAffected(); err == nil && removed > 0 {
		s.logger.Snapshot().Debug("Snapshots deleted", "prefix", prefix, "removed", removed)
	}
	return nil
}

// Prune removes rows fetched longer than olderThan ago and returns how many
// went. The cleanup worker calls this on its sweep.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	const query = `DELETE FROM query_snapshots WHERE fetched_at < ?`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Count reports the stored snapshot population for ops stats.
func (s *Store) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM query_snapshots`

	var count int
	err := s.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	var result []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.Key, &row.Payload, &row.FetchedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// escapeLike neutralizes LIKE wildcards in a literal prefix. Canonical keys
// contain '%' from percent-encoding, so this is not hypothetical.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
