package market_test

import (
	"testing"

	"github.com/okian/offseason/internal/domain/market"
	"github.com/okian/offseason/internal/domain/position"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExpectedAnnualValue(t *testing.T) {
	Convey("Given the demand curve", t, func() {
		Convey("Then tier boundaries match the market table", func() {
			So(market.ExpectedAnnualValue(position.QB, 90), ShouldEqual, 57.0)
			So(market.ExpectedAnnualValue(position.QB, 89), ShouldEqual, 48.0)
			So(market.ExpectedAnnualValue(position.WR, 86), ShouldEqual, 28.0)
			So(market.ExpectedAnnualValue(position.RB, 64), ShouldEqual, 1.0)
		})

		Convey("Then the 70-74 band uses 32 percent of the ceiling", func() {
			So(market.ExpectedAnnualValue(position.QB, 72), ShouldEqual, 19.2)
			So(market.ExpectedAnnualValue(position.QB, 70), ShouldEqual, 19.2)
			So(market.ExpectedAnnualValue(position.QB, 69), ShouldEqual, 1.0)
		})

		Convey("Then values are rounded to one decimal", func() {
			// 22 * 0.7 = 15.4, 22 * 0.32 = 7.04
			So(market.ExpectedAnnualValue(position.IOL, 81), ShouldEqual, 15.4)
			So(market.ExpectedAnnualValue(position.IOL, 71), ShouldEqual, 7.0)
		})

		Convey("Then small ceilings keep their tier share", func() {
			So(market.ExpectedAnnualValue(position.LS, 75), ShouldEqual, 0.8)
			So(market.ExpectedAnnualValue(position.LS, 70), ShouldEqual, 0.6)
			So(market.ExpectedAnnualValue(position.LS, 90), ShouldEqual, 1.9)
			So(market.ExpectedAnnualValue(position.LS, 69), ShouldEqual, 1.0)
			So(market.ExpectedAnnualValue(position.P, 75), ShouldEqual, 2.0)
		})

		Convey("Then the rated tiers never decrease as rating rises", func() {
			for _, p := range position.All {
				prev := 0.0
				for r := 70; r <= 99; r++ {
					v := market.ExpectedAnnualValue(p, r)
					So(v, ShouldBeGreaterThanOrEqualTo, prev)
					prev = v
				}
			}
		})
	})
}

func TestCapForPosition(t *testing.T) {
	Convey("Given position ceilings", t, func() {
		So(market.CapForPosition(position.QB), ShouldEqual, 60.0)
		So(market.CapForPosition(position.Unknown), ShouldEqual, 20.0)

		Convey("Edge aliases share one ceiling", func() {
			So(market.CapForLabel("DE"), ShouldEqual, market.CapForLabel("EDGE"))
			So(market.CapForLabel("edge rusher"), ShouldEqual, 35.0)
		})

		Convey("No ceiling exceeds the global ceiling once effective", func() {
			for _, p := range position.All {
				So(market.EffectiveCeiling(p), ShouldBeLessThanOrEqualTo, market.GlobalCeiling)
			}
		})
	})
}
