package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/okian/bingo/internal/adapters/repository"
	"github.com/okian/bingo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var frozen = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newStore(opts ...repository.Option) *repository.MemStore {
	opts = append(opts, repository.WithClock(func() time.Time { return frozen }))
	return repository.NewMemStore(context.Background(), opts...)
}

func TestUpsert(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		s := newStore()

		Convey("When a first submission arrives", func() {
			stored, err := s.Upsert(ctx, model.SubmissionEvent{
				EventID: "e1", Team: "alpha", TileID: "t1", Player: "p1",
			})

			Convey("Then it is appended with the clock timestamp", func() {
				So(err, ShouldBeNil)
				So(stored.Timestamp, ShouldEqual, frozen)
				So(stored.CompletionTimestamp, ShouldBeNil)
				So(s.Count(ctx), ShouldEqual, 1)
			})

			Convey("And a re-submission overwrites the row in place", func() {
				again, err := s.Upsert(ctx, model.SubmissionEvent{
					EventID: "e2", Team: "alpha", TileID: "t1", Player: "p2", IsComplete: true,
				})
				So(err, ShouldBeNil)
				So(s.Count(ctx), ShouldEqual, 1)

				Convey("Keeping the row identity and creation instant", func() {
					So(again.EventID, ShouldEqual, "e1")
					So(again.Timestamp, ShouldEqual, frozen)
					So(again.Player, ShouldEqual, "p2")
				})

				Convey("And stamping the first completion instant", func() {
					So(again.CompletionTimestamp, ShouldNotBeNil)
					So(*again.CompletionTimestamp, ShouldEqual, frozen)
				})
			})
		})

		Convey("When the live row for a key is archived", func() {
			_, err := s.Upsert(ctx, model.SubmissionEvent{EventID: "e1", Team: "alpha", TileID: "t1"})
			So(err, ShouldBeNil)
			_, err = s.Archive(ctx, []string{"e1"})
			So(err, ShouldBeNil)

			Convey("Then a new submission appends instead of overwriting", func() {
				_, err := s.Upsert(ctx, model.SubmissionEvent{EventID: "e2", Team: "alpha", TileID: "t1"})
				So(err, ShouldBeNil)
				So(s.Count(ctx), ShouldEqual, 2)
			})
		})
	})
}

func TestUpdateFlags(t *testing.T) {
	Convey("Given a store with one live row", t, func() {
		ctx := context.Background()
		s := newStore()
		_, err := s.Upsert(ctx, model.SubmissionEvent{EventID: "e1", Team: "alpha", TileID: "t1"})
		So(err, ShouldBeNil)
		key := model.Key{Team: "alpha", TileID: "t1"}

		Convey("When the admin verifies and completes it", func() {
			yes := true
			updated, err := s.UpdateFlags(ctx, key, repository.FlagPatch{Verified: &yes, Complete: &yes})

			Convey("Then the flags change and completion is stamped", func() {
				So(err, ShouldBeNil)
				So(updated.AdminVerified, ShouldBeTrue)
				So(updated.IsComplete, ShouldBeTrue)
				So(updated.CompletionTimestamp, ShouldNotBeNil)
			})

			Convey("And nil patch fields stay untouched", func() {
				So(updated.RequiresAction, ShouldBeFalse)
			})
		})

		Convey("When the key has no live row", func() {
			_, err := s.UpdateFlags(ctx, model.Key{Team: "beta", TileID: "t1"}, repository.FlagPatch{})

			Convey("Then it fails with the not-found kind", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a store whose log holds duplicate live rows for a key", t, func() {
		ctx := context.Background()
		s := newStore(repository.WithEvents([]model.SubmissionEvent{
			{EventID: "d1", Team: "alpha", TileID: "t1"},
			{EventID: "d2", Team: "alpha", TileID: "t1"},
		}))

		Convey("When the admin edits flags for that key", func() {
			yes := true
			_, err := s.UpdateFlags(ctx, model.Key{Team: "alpha", TileID: "t1"}, repository.FlagPatch{Verified: &yes})

			Convey("Then the edit is refused as ambiguous", func() {
				So(errors.Is(err, repository.ErrAmbiguousState), ShouldBeTrue)
			})

			Convey("And resolving the duplicate unblocks it", func() {
				_, aerr := s.Archive(ctx, []string{"d1"})
				So(aerr, ShouldBeNil)
				updated, uerr := s.UpdateFlags(ctx, model.Key{Team: "alpha", TileID: "t1"}, repository.FlagPatch{Verified: &yes})
				So(uerr, ShouldBeNil)
				So(updated.EventID, ShouldEqual, "d2")
				So(updated.AdminVerified, ShouldBeTrue)
			})
		})
	})
}

func TestArchive(t *testing.T) {
	Convey("Given a store with several rows", t, func() {
		ctx := context.Background()
		s := newStore()
		for _, id := range []string{"e1", "e2", "e3"} {
			_, err := s.Upsert(ctx, model.SubmissionEvent{EventID: id, Team: "alpha", TileID: "tile-" + id})
			So(err, ShouldBeNil)
		}

		Convey("When some rows are archived", func() {
			n, err := s.Archive(ctx, []string{"e1", "e3", "missing"})

			Convey("Then only matching live rows change", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
			})

			Convey("And archiving again is a no-op", func() {
				n, err := s.Archive(ctx, []string{"e1"})
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})

			Convey("And archived rows stay readable for audit", func() {
				events, err := s.Events(ctx)
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
				So(events[0].Archived, ShouldBeTrue)
				So(events[1].Archived, ShouldBeFalse)
			})
		})
	})
}

func TestTiles(t *testing.T) {
	Convey("Given a store without a tile table", t, func() {
		s := newStore()

		Convey("Then reading tiles reports the missing collaborator", func() {
			_, err := s.Tiles(context.Background())
			So(errors.Is(err, repository.ErrMissingCollaborator), ShouldBeTrue)
		})
	})

	Convey("Given a store loaded with tiles", t, func() {
		s := newStore(repository.WithTiles([]model.TileDefinition{{TileID: "t1", Points: 10}}))

		Convey("Then the table reads back", func() {
			tiles, err := s.Tiles(context.Background())
			So(err, ShouldBeNil)
			So(tiles, ShouldHaveLength, 1)
			So(tiles[0].TileID, ShouldEqual, "t1")
		})
	})
}

func TestWriteLockTimeout(t *testing.T) {
	Convey("Given a store with a very short lock timeout", t, func() {
		ctx := context.Background()
		s := newStore(repository.WithLockTimeout(20 * time.Millisecond))

		Convey("When a writer holds the lock past the bound", func() {
			release, held := s.HoldWriteLock()
			So(held, ShouldBeTrue)
			defer release()

			Convey("Then a competing write fails with the stale-write kind", func() {
				_, err := s.Upsert(ctx, model.SubmissionEvent{EventID: "e1", Team: "alpha", TileID: "t1"})
				So(errors.Is(err, repository.ErrStaleWrite), ShouldBeTrue)
			})

			Convey("And reads proceed without waiting", func() {
				events, err := s.Events(ctx)
				So(err, ShouldBeNil)
				So(events, ShouldBeEmpty)
			})
		})
	})
}
