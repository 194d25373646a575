// Package repository defines the submission-log store interface and errors.
package repository

import (
	"time"

	"github.com/okian/bingo/internal/domain/model"
)

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithLockTimeout bounds how long a writer waits for the exclusive lock.
func WithLockTimeout(timeout time.Duration) Option {
	return func(s *MemStore) {
		if timeout > 0 {
			s.lockTimeout = timeout
		}
	}
}

// WithClock overrides the time source for timestamp assignment.
func WithClock(now func() time.Time) Option {
	return func(s *MemStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTiles loads the tile definition table.
func WithTiles(tiles []model.TileDefinition) Option {
	return func(s *MemStore) {
		s.tiles = append([]model.TileDefinition(nil), tiles...)
		s.tilesLoaded = true
	}
}

// WithEvents seeds the log with existing rows in insertion order.
func WithEvents(events []model.SubmissionEvent) Option {
	return func(s *MemStore) {
		s.events = append([]model.SubmissionEvent(nil), events...)
	}
}
