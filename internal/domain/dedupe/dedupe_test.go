package dedupe_test

import (
	"errors"
	"testing"

	dedupe "github.com/okian/bingo/internal/domain/dedupe"
	"github.com/okian/bingo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func evt(id, team, tile string, archived bool) model.SubmissionEvent {
	return model.SubmissionEvent{EventID: id, Team: team, TileID: tile, Archived: archived}
}

func TestDetect(t *testing.T) {
	Convey("Given a submission log", t, func() {
		Convey("When every key has at most one live row", func() {
			log := []model.SubmissionEvent{
				evt("e1", "alpha", "t1", false),
				evt("e2", "alpha", "t2", false),
				evt("e3", "beta", "t1", false),
			}

			Convey("Then no conflicts are reported", func() {
				So(dedupe.Detect(log), ShouldBeEmpty)
			})
		})

		Convey("When a key has multiple live rows", func() {
			log := []model.SubmissionEvent{
				evt("e1", "beta", "t1", false),
				evt("e2", "alpha", "t1", false),
				evt("e3", "alpha", "t1", false),
				evt("e4", "beta", "t1", false),
			}
			conflicts := dedupe.Detect(log)

			Convey("Then each such key reports one conflict, team-ordered", func() {
				So(conflicts, ShouldHaveLength, 2)
				So(conflicts[0].Key, ShouldResemble, model.Key{Team: "alpha", TileID: "t1"})
				So(conflicts[1].Key, ShouldResemble, model.Key{Team: "beta", TileID: "t1"})
			})

			Convey("And group members keep log order", func() {
				So(conflicts[0].Events[0].EventID, ShouldEqual, "e2")
				So(conflicts[0].Events[1].EventID, ShouldEqual, "e3")
			})
		})

		Convey("When duplicate rows are already archived", func() {
			log := []model.SubmissionEvent{
				evt("e1", "alpha", "t1", false),
				evt("e2", "alpha", "t1", true),
			}

			Convey("Then they do not count toward a conflict", func() {
				So(dedupe.Detect(log), ShouldBeEmpty)
			})
		})

		Convey("When rows are missing team or tile", func() {
			log := []model.SubmissionEvent{
				evt("e1", "", "t1", false),
				evt("e2", "", "t1", false),
			}

			Convey("Then they are not grouped at all", func() {
				So(dedupe.Detect(log), ShouldBeEmpty)
			})
		})
	})
}

func TestPlanResolution(t *testing.T) {
	Convey("Given a conflict group", t, func() {
		c := dedupe.Conflict{
			Key: model.Key{Team: "alpha", TileID: "t1"},
			Events: []model.SubmissionEvent{
				evt("e1", "alpha", "t1", false),
				evt("e2", "alpha", "t1", false),
				evt("e3", "alpha", "t1", false),
			},
		}

		Convey("When the keeper is in the group", func() {
			archive, err := c.PlanResolution("e2")

			Convey("Then every other member is planned for archival", func() {
				So(err, ShouldBeNil)
				So(archive, ShouldResemble, []string{"e1", "e3"})
			})
		})

		Convey("When the keeper is unknown", func() {
			_, err := c.PlanResolution("e9")

			Convey("Then the plan fails with the sentinel kind", func() {
				So(errors.Is(err, dedupe.ErrKeeperNotInGroup), ShouldBeTrue)
			})
		})
	})
}
