// Package sqlite persists the in-memory store to a SQLite file as JSON snapshots.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/and161185/repairflow/internal/repository"
	"github.com/and161185/repairflow/internal/repository/memory"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Store serves reads from memory and snapshots every collection to SQLite after each write.
type Store struct {
	*memory.Store
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path and loads the last snapshot.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = "repairflow.db"
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
	s.OnCommit(s.persist)
	return s, nil
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Store {
	st := s.Store.Repositories()
	st.Close = func(context.Context) error { return s.db.Close() }
	return st
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snap memory.Snapshot
	targets := buckets(&snap)
	found := false
	for rows.Next() {
		var (
			bucket  string
			payload []byte
		)
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		dst, ok := targets[bucket]
		if !ok {
			continue
		}
		if err := json.Unmarshal(payload, dst); err != nil {
			return fmt.Errorf("decode %s: %w", bucket, err)
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if found {
		s.ImportState(snap)
	}
	return nil
}

func (s *Store) persist(snap memory.Snapshot) (retErr error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for bucket, src := range buckets(&snap) {
		data, err := json.Marshal(src)
		if err != nil {
			return fmt.Errorf("encode %s: %w", bucket, err)
		}
		if _, err := tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	return tx.Commit()
}

func buckets(snap *memory.Snapshot) map[string]any {
	return map[string]any{
		repository.CollectionClients:        &snap.Clients,
		repository.CollectionEquipment:      &snap.Equipment,
		repository.CollectionPurchaseOrders: &snap.PurchaseOrders,
		repository.CollectionManufacturers:  &snap.Manufacturers,
		repository.CollectionModels:         &snap.Models,
		repository.CollectionFaultTypes:     &snap.FaultTypes,
	}
}
