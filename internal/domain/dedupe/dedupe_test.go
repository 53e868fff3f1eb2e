package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/offseason/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryGuard(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new guard", t, func() {
		g := dedupe.NewMemoryGuard()
		So(g.Size(), ShouldEqual, 0)

		Convey("When a key is claimed twice", func() {
			first := g.Claim(ctx, "s-1:7")
			second := g.Claim(ctx, "s-1:7")

			Convey("Then only the first claim wins", func() {
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
				So(g.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a claim is released", func() {
			g.Claim(ctx, "s-1:7")
			g.Release(ctx, "s-1:7")
			g.Release(ctx, "missing")

			Convey("Then the key can be claimed again", func() {
				So(g.Size(), ShouldEqual, 0)
				So(g.Claim(ctx, "s-1:7"), ShouldBeTrue)
			})
		})
	})

	Convey("Given a bounded guard", t, func() {
		g := dedupe.NewMemoryGuard(dedupe.WithMaxSize(3))
		for _, k := range []string{"a", "b", "c", "d"} {
			So(g.Claim(ctx, k), ShouldBeTrue)
		}

		Convey("Then the oldest claim is forgotten", func() {
			So(g.Size(), ShouldEqual, 3)
			So(g.Claim(ctx, "d"), ShouldBeFalse)
			So(g.Claim(ctx, "c"), ShouldBeFalse)
			So(g.Claim(ctx, "a"), ShouldBeTrue)
			So(g.Size(), ShouldEqual, 3)
		})

		Convey("Then releasing frees a slot without disturbing others", func() {
			g.Release(ctx, "c")
			So(g.Size(), ShouldEqual, 2)
			So(g.Claim(ctx, "e"), ShouldBeTrue)
			So(g.Claim(ctx, "d"), ShouldBeFalse)
			So(g.Size(), ShouldBeLessThanOrEqualTo, 3)
		})

		Convey("Then an empty key is handled like any other", func() {
			So(g.Claim(ctx, ""), ShouldBeTrue)
			So(g.Claim(ctx, ""), ShouldBeFalse)
			So(g.Size(), ShouldEqual, 3)
		})
	})

	Convey("Given an unbounded guard", t, func() {
		g := dedupe.NewMemoryGuard(dedupe.WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			g.Claim(ctx, fmt.Sprintf("k-%d", i))
		}
		So(g.Size(), ShouldEqual, 1000)
		So(g.Claim(ctx, "k-0"), ShouldBeFalse)
	})

	Convey("Given concurrent claims of the same keys", t, func() {
		g := dedupe.NewMemoryGuard()
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins = map[string]int{}
		)
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					k := fmt.Sprintf("s:%d", i)
					if g.Claim(ctx, k) {
						mu.Lock()
						wins[k]++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then every key is won exactly once", func() {
			So(len(wins), ShouldEqual, 100)
			for _, n := range wins {
				So(n, ShouldEqual, 1)
			}
			So(g.Size(), ShouldEqual, 100)
		})
	})
}
