// Package sqlite provides a SQLite-backed persistent store that snapshots the
// in-memory state into one JSON bucket per entity collection.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"restaurantcore/internal/infra/persistence/memory"
	"restaurantcore/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// DefaultPath is used when no database path is configured.
const DefaultPath = "restaurantcore.db"

// Store persists the in-memory state to a single SQLite table as JSON blobs.
// It snapshots the full state after every successful transaction.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore constructs a snapshotting SQLite-backed persistent store.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	snapshot := domain.NewSnapshot()
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		records, err := domain.DecodeBucket(domain.EntityType(bucket), payload)
		if err != nil {
			return err
		}
		snapshot.Buckets[domain.EntityType(bucket)] = records
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	return s.Store.ImportState(snapshot)
}

// persist writes every bucket in one SQL transaction. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) (retErr error) {
	snapshot := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, entity := range domain.EntityTypes() {
		data, err := domain.EncodeBucket(snapshot.Buckets[entity])
		if err != nil {
			return fmt.Errorf("encode %s: %w", entity, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, string(entity), data); err != nil {
			return fmt.Errorf("upsert %s: %w", entity, err)
		}
	}
	return tx.Commit()
}

// RunInTransaction applies fn to the in-memory state, then snapshots it to
// SQLite. When the snapshot cannot be written the in-memory state is rolled
// back so readers never see uncommitted records.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) ([]domain.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	restore := s.Store.Checkpoint()
	changes, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return changes, nil
	}
	if err := s.persist(ctx); err != nil {
		restore()
		return nil, err
	}
	return changes, nil
}

// ImportState replaces the state and writes it through to SQLite. The
// previous state is kept when the write fails.
func (s *Store) ImportState(snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	restore := s.Store.Checkpoint()
	if err := s.Store.ImportState(snapshot); err != nil {
		return err
	}
	if err := s.persist(context.Background()); err != nil {
		restore()
		return err
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
