// Package storage defines persistence for combat snapshots.
//
// A snapshot is the durable form of a session's timeline and roster: one row
// per combatant carrying its tick. Events and the edit log are never
// persisted; they are ephemeral by design.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louvel/greatwheel/internal/platform/errors"
)

// ErrNotFound indicates the named snapshot does not exist.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "snapshot not found")

// SnapshotEntry is one combatant's position in a saved combat.
type SnapshotEntry struct {
	CombatantID string
	Name        string
	Tick        int
}

// Snapshot is a saved combat, addressable by name.
type Snapshot struct {
	ID          string
	Name        string
	CurrentTick int
	Entries     []SnapshotEntry
	CreatedAt   time.Time
}

// SnapshotStore persists combat snapshots.
type SnapshotStore interface {
	// Save upserts a snapshot by name and returns the stored form.
	Save(ctx context.Context, snapshot Snapshot) (Snapshot, error)
	// Load returns the snapshot with the given name, or ErrNotFound.
	Load(ctx context.Context, name string) (Snapshot, error)
	// List returns all snapshots newest-first, without entries.
	List(ctx context.Context) ([]Snapshot, error)
	// Delete removes the named snapshot, or returns ErrNotFound.
	Delete(ctx context.Context, name string) error
}
