package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/okian/bingo/internal/adapters/repository"
	service "github.com/okian/bingo/internal/app"
	"github.com/okian/bingo/internal/domain/model"
	"github.com/okian/bingo/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var tiles = []model.TileDefinition{
	{TileID: "t1", Name: "First", Points: 10},
	{TileID: "t2", Name: "Second", Points: 25, Prerequisites: `[["t1"]]`},
	{TileID: "t3", Name: "Third", Points: 5, Prerequisites: "t1, t2"},
}

func newService(opts ...service.Option) *service.Service {
	store := repository.NewMemStore(context.Background(), repository.WithTiles(tiles))
	base := []service.Option{
		service.WithStore(store),
		service.WithTeams([]string{"alpha", "beta"}),
		service.WithTeamPasswords(map[string]string{"alpha": "pw-a", "beta": "pw-b"}),
		service.WithAdminPassword("admin-pw"),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestSubmit(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService(service.WithScoreOnVerifiedOnly(false))
		defer svc.Stop()

		Convey("When a team submits with the right password", func() {
			stored, err := svc.Submit(ctx, service.SubmitRequest{
				Team: "alpha", TileID: "t1", Player: "alice", Password: "pw-a", Complete: true,
			})

			Convey("Then the submission is stored with a minted id", func() {
				So(err, ShouldBeNil)
				So(stored.EventID, ShouldNotBeEmpty)
				So(stored.IsComplete, ShouldBeTrue)
			})

			Convey("And the board reflects it", func() {
				board, err := svc.Board(ctx)
				So(err, ShouldBeNil)
				So(board.Scoreboard[0].Team, ShouldEqual, "alpha")
				So(board.Scoreboard[0].Score, ShouldEqual, 10)
			})
		})

		Convey("When the password is wrong", func() {
			_, err := svc.Submit(ctx, service.SubmitRequest{
				Team: "alpha", TileID: "t1", Password: "nope",
			})

			Convey("Then submission fails with the credential kind", func() {
				So(errors.Is(err, service.ErrInvalidCredential), ShouldBeTrue)
			})
		})

		Convey("When the team is not configured", func() {
			_, err := svc.Submit(ctx, service.SubmitRequest{Team: "ghost", TileID: "t1"})
			So(errors.Is(err, service.ErrUnknownTeam), ShouldBeTrue)
		})

		Convey("When the tile does not exist", func() {
			_, err := svc.Submit(ctx, service.SubmitRequest{
				Team: "alpha", TileID: "nope", Password: "pw-a",
			})
			So(errors.Is(err, service.ErrUnknownTile), ShouldBeTrue)
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New(service.WithTeams([]string{"alpha"}))

		Convey("Operations fail with the not-started kind", func() {
			_, err := svc.Board(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestTileStatus(t *testing.T) {
	Convey("Given a service with completion-based unlocking", t, func() {
		ctx := context.Background()
		svc := newService(service.WithScoreOnVerifiedOnly(false))
		defer svc.Stop()

		_, err := svc.Submit(ctx, service.SubmitRequest{
			Team: "alpha", TileID: "t1", Password: "pw-a", Complete: true,
		})
		So(err, ShouldBeNil)

		Convey("Then the completed tile reads submitted", func() {
			st, err := svc.TileStatus(ctx, "t1", "alpha")
			So(err, ShouldBeNil)
			So(st, ShouldEqual, model.StatusSubmitted)
		})

		Convey("And its dependent unlocks", func() {
			st, err := svc.TileStatus(ctx, "t2", "alpha")
			So(err, ShouldBeNil)
			So(st, ShouldEqual, model.StatusUnlocked)
		})

		Convey("And a two-prerequisite tile stays locked", func() {
			st, err := svc.TileStatus(ctx, "t3", "alpha")
			So(err, ShouldBeNil)
			So(st, ShouldEqual, model.StatusLocked)
		})

		Convey("And another team sees nothing unlocked downstream", func() {
			st, err := svc.TileStatus(ctx, "t2", "beta")
			So(err, ShouldBeNil)
			So(st, ShouldEqual, model.StatusLocked)
		})

		Convey("And unknown names error", func() {
			_, err := svc.TileStatus(ctx, "t1", "ghost")
			So(errors.Is(err, service.ErrUnknownTeam), ShouldBeTrue)
			_, err = svc.TileStatus(ctx, "nope", "alpha")
			So(errors.Is(err, service.ErrUnknownTile), ShouldBeTrue)
		})
	})

	Convey("Given a service with verified-only unlocking", t, func() {
		ctx := context.Background()
		svc := newService(service.WithUnlockOnVerifiedOnly(true))
		defer svc.Stop()

		_, err := svc.Submit(ctx, service.SubmitRequest{
			Team: "alpha", TileID: "t1", Password: "pw-a", Complete: true,
		})
		So(err, ShouldBeNil)

		Convey("Then completion alone does not unlock the dependent", func() {
			st, err := svc.TileStatus(ctx, "t2", "alpha")
			So(err, ShouldBeNil)
			So(st, ShouldEqual, model.StatusLocked)
		})

		Convey("But admin verification does", func() {
			yes := true
			_, err := svc.UpdateFlags(ctx, "admin-pw",
				model.Key{Team: "alpha", TileID: "t1"},
				repository.FlagPatch{Verified: &yes},
			)
			So(err, ShouldBeNil)

			st, err := svc.TileStatus(ctx, "t2", "alpha")
			So(err, ShouldBeNil)
			So(st, ShouldEqual, model.StatusUnlocked)
		})
	})
}

func TestUpdateFlagsAuth(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService()
		defer svc.Stop()

		_, err := svc.Submit(ctx, service.SubmitRequest{
			Team: "alpha", TileID: "t1", Password: "pw-a",
		})
		So(err, ShouldBeNil)

		Convey("When the admin password is wrong", func() {
			yes := true
			_, err := svc.UpdateFlags(ctx, "bad",
				model.Key{Team: "alpha", TileID: "t1"},
				repository.FlagPatch{Verified: &yes},
			)

			Convey("Then the edit is refused", func() {
				So(errors.Is(err, service.ErrInvalidCredential), ShouldBeTrue)
			})
		})

		Convey("When marking a tile as requiring action", func() {
			yes := true
			updated, err := svc.UpdateFlags(ctx, "admin-pw",
				model.Key{Team: "alpha", TileID: "t1"},
				repository.FlagPatch{RequiresAction: &yes},
			)
			So(err, ShouldBeNil)
			So(updated.RequiresAction, ShouldBeTrue)

			Convey("Then the board shows the flag", func() {
				st, err := svc.TileStatus(ctx, "t1", "alpha")
				So(err, ShouldBeNil)
				So(st, ShouldEqual, model.StatusRequiresAction)
			})
		})
	})
}

func TestHistoryCap(t *testing.T) {
	Convey("Given a service with a tiny history cap", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx, repository.WithTiles(tiles))
		svc := service.New(
			service.WithStore(store),
			service.WithTeams([]string{"alpha"}),
			service.WithScoreOnVerifiedOnly(false),
			service.WithMaxHistoryPoints(1),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		// Three tiles completing means three chart points.
		for i, tile := range []string{"t1", "t2", "t3"} {
			_, err := store.Upsert(ctx, model.SubmissionEvent{
				EventID:    tile + "-evt",
				Team:       "alpha",
				TileID:     tile,
				Timestamp:  time.Date(2026, 3, 1, 12, i, 0, 0, time.UTC),
				IsComplete: true,
			})
			So(err, ShouldBeNil)
		}

		Convey("Then only the most recent point survives the cap", func() {
			series, err := svc.History(ctx)
			So(err, ShouldBeNil)
			So(series, ShouldHaveLength, 1)
			So(series[0].Scores["alpha"], ShouldEqual, 40)
		})
	})
}
