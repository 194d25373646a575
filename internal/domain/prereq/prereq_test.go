package prereq_test

import (
	"testing"

	prereq "github.com/okian/bingo/internal/domain/prereq"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given raw prerequisite strings", t, func() {
		Convey("When the string is empty or whitespace", func() {
			Convey("Then it parses to the empty expression", func() {
				So(prereq.Parse("").Kind(), ShouldEqual, prereq.KindEmpty)
				So(prereq.Parse("   ").Kind(), ShouldEqual, prereq.KindEmpty)
			})
		})

		Convey("When the string is a comma list", func() {
			expr := prereq.Parse("t1, t2 ,, t3")

			Convey("Then it parses to an AND list with trimmed ids", func() {
				So(expr.Kind(), ShouldEqual, prereq.KindAndList)
				So(expr.References(), ShouldResemble, []string{"t1", "t2", "t3"})
			})
		})

		Convey("When the string is JSON array-of-arrays", func() {
			expr := prereq.Parse(`[["t1","t2"],["t3"]]`)

			Convey("Then it parses to an any-group expression", func() {
				So(expr.Kind(), ShouldEqual, prereq.KindAnyGroup)
				So(expr.References(), ShouldResemble, []string{"t1", "t2", "t3"})
			})
		})

		Convey("When the JSON is malformed", func() {
			Convey("Then it degrades to the empty expression", func() {
				So(prereq.Parse(`[[t1,`).Kind(), ShouldEqual, prereq.KindEmpty)
				So(prereq.Parse(`[["t1",`).Kind(), ShouldEqual, prereq.KindEmpty)
				So(prereq.Parse(`[}`).Kind(), ShouldEqual, prereq.KindEmpty)
			})
		})

		Convey("When the JSON holds only empty groups", func() {
			Convey("Then it degrades to the empty expression", func() {
				So(prereq.Parse(`[[],[""]]`).Kind(), ShouldEqual, prereq.KindEmpty)
			})
		})
	})
}

func TestSatisfiedBy(t *testing.T) {
	Convey("Given parsed expressions", t, func() {
		sat := func(ids ...string) map[string]bool {
			m := make(map[string]bool, len(ids))
			for _, id := range ids {
				m[id] = true
			}
			return m
		}

		Convey("The empty expression is satisfied by any set", func() {
			So(prereq.Empty().SatisfiedBy(nil), ShouldBeTrue)
			So(prereq.Parse("").SatisfiedBy(sat()), ShouldBeTrue)
			So(prereq.Parse("").SatisfiedBy(sat("x")), ShouldBeTrue)
		})

		Convey("An AND list needs every referenced tile", func() {
			expr := prereq.Parse("a, b")
			So(expr.SatisfiedBy(sat("a", "b")), ShouldBeTrue)
			So(expr.SatisfiedBy(sat("a", "b", "c")), ShouldBeTrue)
			So(expr.SatisfiedBy(sat("a")), ShouldBeFalse)
			So(expr.SatisfiedBy(sat()), ShouldBeFalse)
		})

		Convey("An any-group expression needs one fully satisfied group", func() {
			expr := prereq.Parse(`[["a","b"],["c"]]`)
			So(expr.SatisfiedBy(sat("a", "b")), ShouldBeTrue)
			So(expr.SatisfiedBy(sat("c")), ShouldBeTrue)
			So(expr.SatisfiedBy(sat("a", "c")), ShouldBeTrue)
			So(expr.SatisfiedBy(sat("a")), ShouldBeFalse)
			So(expr.SatisfiedBy(sat("b")), ShouldBeFalse)
			So(expr.SatisfiedBy(sat()), ShouldBeFalse)
		})
	})
}
