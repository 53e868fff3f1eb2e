package rng_test

import (
	"testing"

	"github.com/okian/offseason/internal/domain/rng"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNext(t *testing.T) {
	Convey("Given a derived state", t, func() {
		s := rng.Derive(42)

		Convey("Then the state differs from the seed", func() {
			So(uint32(s), ShouldNotEqual, uint32(42))
		})

		Convey("Then Next is pure", func() {
			a, sa := rng.Next(s)
			b, sb := rng.Next(s)
			So(a, ShouldEqual, b)
			So(sa, ShouldEqual, sb)
			So(sa, ShouldNotEqual, s)
		})

		Convey("Then values stay in [0, 1)", func() {
			cur := s
			for i := 0; i < 5000; i++ {
				var v float64
				v, cur = rng.Next(cur)
				So(v, ShouldBeGreaterThanOrEqualTo, 0)
				So(v, ShouldBeLessThan, 1)
			}
		})

		Convey("Then Draws matches repeated Next calls", func() {
			vals, end := rng.Draws(s, 3)
			v1, s1 := rng.Next(s)
			v2, s2 := rng.Next(s1)
			v3, s3 := rng.Next(s2)
			So(vals, ShouldResemble, []float64{v1, v2, v3})
			So(end, ShouldEqual, s3)
		})
	})

	Convey("Given two seeds", t, func() {
		a, _ := rng.Next(rng.Derive(1))
		b, _ := rng.Next(rng.Derive(2))
		So(a, ShouldNotEqual, b)
	})

	Convey("Given string keys", t, func() {
		So(rng.Seeded("player-1"), ShouldEqual, rng.Seeded("player-1"))
		So(rng.Seeded("player-1"), ShouldNotEqual, rng.Seeded("player-2"))
		So(rng.Hash32(""), ShouldEqual, uint32(2166136261))
	})
}
