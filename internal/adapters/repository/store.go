// Package repository defines the submission-log store interface and errors.
//
// The log is modeled after an externally-locked table: writers acquire a
// bounded-wait exclusive lock around their read-modify-write sequence and
// fail with ErrStaleWrite on timeout; readers never wait and may race
// harmlessly with writers, seeing an eventually-consistent snapshot.
package repository

import (
	"context"

	"github.com/okian/bingo/internal/domain/model"
)

// FlagPatch carries admin status edits. Nil fields are left untouched.
type FlagPatch struct {
	Verified       *bool
	Complete       *bool
	RequiresAction *bool
	Notes          *string
}

// Store provides read/write access to the submission log and tile table.
type Store interface {
	// Events returns a snapshot of the full log in insertion order,
	// archived rows included.
	Events(ctx context.Context) ([]model.SubmissionEvent, error)

	// Tiles returns the tile definition table.
	// Returns ErrMissingCollaborator when the table was never loaded.
	Tiles(ctx context.Context) ([]model.TileDefinition, error)

	// Upsert overwrites the live row for the event's key in place, or
	// appends a new row when none exists. Returns the stored row.
	Upsert(ctx context.Context, e model.SubmissionEvent) (model.SubmissionEvent, error)

	// UpdateFlags applies status edits to the latest live row for key.
	// Returns ErrNotFound when the key has no live row.
	UpdateFlags(ctx context.Context, key model.Key, patch FlagPatch) (model.SubmissionEvent, error)

	// Archive marks the given rows archived and reports how many changed.
	Archive(ctx context.Context, eventIDs []string) (int, error)

	// Count returns the number of rows in the log, archived included.
	Count(ctx context.Context) int
}
