// Package sqlite provides SQLite-backed snapshot persistence.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louvel/greatwheel/internal/platform/id"
	"github.com/louvel/greatwheel/internal/platform/storage/sqlitemigrate"
	"github.com/louvel/greatwheel/internal/storage"
	"github.com/louvel/greatwheel/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed snapshot persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a snapshot SQLite store and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save upserts a snapshot by name, replacing its entries.
func (s *Store) Save(ctx context.Context, snapshot storage.Snapshot) (storage.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return storage.Snapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Snapshot{}, fmt.Errorf("storage is not configured")
	}

	snapshot.Name = strings.TrimSpace(snapshot.Name)
	if snapshot.Name == "" {
		return storage.Snapshot{}, fmt.Errorf("snapshot name is required")
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM snapshots WHERE name = ?`, snapshot.Name).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		newID, idErr := id.NewID()
		if idErr != nil {
			return storage.Snapshot{}, fmt.Errorf("generate snapshot id: %w", idErr)
		}
		snapshot.ID = newID
		if _, err := tx.ExecContext(ctx, `
INSERT INTO snapshots (id, name, current_tick, created_at)
VALUES (?, ?, ?, ?)
`, snapshot.ID, snapshot.Name, snapshot.CurrentTick, snapshot.CreatedAt.UTC().UnixMilli()); err != nil {
			return storage.Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
		}
	case err != nil:
		return storage.Snapshot{}, fmt.Errorf("find snapshot: %w", err)
	default:
		snapshot.ID = existingID
		if _, err := tx.ExecContext(ctx, `
UPDATE snapshots SET current_tick = ?, created_at = ? WHERE id = ?
`, snapshot.CurrentTick, snapshot.CreatedAt.UTC().UnixMilli(), snapshot.ID); err != nil {
			return storage.Snapshot{}, fmt.Errorf("update snapshot: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
DELETE FROM snapshot_entries WHERE snapshot_id = ?
`, snapshot.ID); err != nil {
			return storage.Snapshot{}, fmt.Errorf("clear snapshot entries: %w", err)
		}
	}

	for position, entry := range snapshot.Entries {
		if entry.CombatantID == "" || entry.Name == "" {
			return storage.Snapshot{}, fmt.Errorf("snapshot entry %d is incomplete", position)
		}
		if entry.Tick < 0 {
			return storage.Snapshot{}, fmt.Errorf("snapshot entry %d has negative tick", position)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO snapshot_entries (snapshot_id, position, combatant_id, combatant_name, tick)
VALUES (?, ?, ?, ?, ?)
`, snapshot.ID, position, entry.CombatantID, entry.Name, entry.Tick); err != nil {
			return storage.Snapshot{}, fmt.Errorf("insert snapshot entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Snapshot{}, fmt.Errorf("commit save: %w", err)
	}
	return snapshot, nil
}

// Load returns the named snapshot with its entries in placement order.
func (s *Store) Load(ctx context.Context, name string) (storage.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return storage.Snapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Snapshot{}, fmt.Errorf("storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.Snapshot{}, fmt.Errorf("snapshot name is required")
	}

	var snapshot storage.Snapshot
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, current_tick, created_at FROM snapshots WHERE name = ?
`, name).Scan(&snapshot.ID, &snapshot.Name, &snapshot.CurrentTick, &createdAt)
	if err == sql.ErrNoRows {
		return storage.Snapshot{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	snapshot.CreatedAt = time.UnixMilli(createdAt).UTC()

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT combatant_id, combatant_name, tick
FROM snapshot_entries
WHERE snapshot_id = ?
ORDER BY position ASC
`, snapshot.ID)
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("load snapshot entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry storage.SnapshotEntry
		if err := rows.Scan(&entry.CombatantID, &entry.Name, &entry.Tick); err != nil {
			return storage.Snapshot{}, fmt.Errorf("scan snapshot entry: %w", err)
		}
		snapshot.Entries = append(snapshot.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return storage.Snapshot{}, fmt.Errorf("iterate snapshot entries: %w", err)
	}
	return snapshot, nil
}

// List returns all snapshots newest-first, without their entries.
func (s *Store) List(ctx context.Context) ([]storage.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, current_tick, created_at
FROM snapshots
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []storage.Snapshot
	for rows.Next() {
		var snapshot storage.Snapshot
		var createdAt int64
		if err := rows.Scan(&snapshot.ID, &snapshot.Name, &snapshot.CurrentTick, &createdAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshot.CreatedAt = time.UnixMilli(createdAt).UTC()
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// Delete removes the named snapshot and its entries.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("snapshot name is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

var _ storage.SnapshotStore = (*Store)(nil)
