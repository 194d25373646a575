package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/bingo/internal/domain/model"
	"github.com/okian/bingo/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultLockTimeout = 10 * time.Second
)

// MemStore implements Store over an in-memory log, standing in for the
// externally hosted table. A single-slot semaphore models the external
// mutual-exclusion lock: one writer at a time, bounded wait, reads
// snapshot without waiting.
type MemStore struct {
	mu          sync.RWMutex
	events      []model.SubmissionEvent
	tiles       []model.TileDefinition
	tilesLoaded bool

	writeSem    chan struct{}
	lockTimeout time.Duration
	now         func() time.Time
}

// NewMemStore creates a store with the given options.
func NewMemStore(_ context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		writeSem:    make(chan struct{}, 1),
		lockTimeout: defaultLockTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns a copy of the full log in insertion order.
func (s *MemStore) Events(_ context.Context) ([]model.SubmissionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.SubmissionEvent(nil), s.events...), nil
}

// Tiles returns the tile table, or ErrMissingCollaborator when absent.
func (s *MemStore) Tiles(_ context.Context) ([]model.TileDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.tilesLoaded {
		return nil, fmt.Errorf("%w: tile definitions", ErrMissingCollaborator)
	}
	return append([]model.TileDefinition(nil), s.tiles...), nil
}

// Count returns the number of rows, archived included.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Upsert overwrites the live row for the event's key or appends a new one.
// The row's creation timestamp is immutable across overwrites; the
// completion timestamp is set once, when the row first turns complete.
func (s *MemStore) Upsert(ctx context.Context, e model.SubmissionEvent) (model.SubmissionEvent, error) {
	release, err := s.acquire(ctx, "upsert")
	if err != nil {
		return model.SubmissionEvent{}, err
	}
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if idx, ok := s.liveIndex(e.KeyOf()); ok {
		prev := s.events[idx]
		e.EventID = prev.EventID
		e.Timestamp = prev.Timestamp
		e.CompletionTimestamp = prev.CompletionTimestamp
		if e.CompletionTimestamp == nil && e.IsComplete {
			e.CompletionTimestamp = &now
		}
		s.events[idx] = e
		metrics.RecordSubmissionOverwritten()
		return e, nil
	}

	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	if e.CompletionTimestamp == nil && e.IsComplete {
		e.CompletionTimestamp = &now
	}
	s.events = append(s.events, e)
	metrics.RecordSubmissionAppended()
	return e, nil
}

// UpdateFlags applies admin status edits to the latest live row for key.
func (s *MemStore) UpdateFlags(ctx context.Context, key model.Key, patch FlagPatch) (model.SubmissionEvent, error) {
	release, err := s.acquire(ctx, "update_flags")
	if err != nil {
		return model.SubmissionEvent{}, err
	}
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()

	if n := s.liveCount(key); n > 1 {
		return model.SubmissionEvent{}, fmt.Errorf("%w: %s/%s has %d live rows", ErrAmbiguousState, key.Team, key.TileID, n)
	}
	idx, ok := s.liveIndex(key)
	if !ok {
		return model.SubmissionEvent{}, fmt.Errorf("%w: %s/%s", ErrNotFound, key.Team, key.TileID)
	}

	e := s.events[idx]
	if patch.Verified != nil {
		e.AdminVerified = *patch.Verified
	}
	if patch.Complete != nil {
		e.IsComplete = *patch.Complete
		if e.IsComplete && e.CompletionTimestamp == nil {
			now := s.now()
			e.CompletionTimestamp = &now
		}
	}
	if patch.RequiresAction != nil {
		e.RequiresAction = *patch.RequiresAction
	}
	if patch.Notes != nil {
		e.Notes = *patch.Notes
	}
	s.events[idx] = e
	return e, nil
}

// Archive marks rows archived by event id.
func (s *MemStore) Archive(ctx context.Context, eventIDs []string) (int, error) {
	release, err := s.acquire(ctx, "archive")
	if err != nil {
		return 0, err
	}
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		ids[id] = true
	}
	changed := 0
	for i := range s.events {
		if ids[s.events[i].EventID] && !s.events[i].Archived {
			s.events[i].Archived = true
			changed++
		}
	}
	if changed > 0 {
		metrics.RecordRowsArchived(changed)
	}
	return changed, nil
}

// liveCount returns the number of non-archived rows for key. Callers
// must hold s.mu.
func (s *MemStore) liveCount(key model.Key) int {
	n := 0
	for i := range s.events {
		if !s.events[i].Archived && s.events[i].KeyOf() == key {
			n++
		}
	}
	return n
}

// liveIndex returns the position of the most recent non-archived row for
// key. Callers must hold s.mu.
func (s *MemStore) liveIndex(key model.Key) (int, bool) {
	for i := len(s.events) - 1; i >= 0; i-- {
		if !s.events[i].Archived && s.events[i].KeyOf() == key {
			return i, true
		}
	}
	return 0, false
}

// HoldWriteLock grabs the writer slot without performing an operation,
// for exercising lock contention in tests. Reports whether the slot was
// free; the returned func releases it.
func (s *MemStore) HoldWriteLock() (func(), bool) {
	select {
	case s.writeSem <- struct{}{}:
		return func() { <-s.writeSem }, true
	default:
		return func() {}, false
	}
}

// acquire takes the single writer slot, waiting at most lockTimeout.
func (s *MemStore) acquire(ctx context.Context, op string) (func(), error) {
	start := time.Now()
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()

	select {
	case s.writeSem <- struct{}{}:
		metrics.RecordWriteLockWait(float64(time.Since(start).Milliseconds()))
		return func() { <-s.writeSem }, nil
	case <-timer.C:
		metrics.RecordWriteLockTimeout()
		return nil, fmt.Errorf("%w: %s after %s", ErrStaleWrite, op, s.lockTimeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("%s cancelled: %w", op, ctx.Err())
	}
}
