package position_test

import (
	"testing"

	"github.com/okian/offseason/internal/domain/position"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given the alias table", t, func() {
		Convey("Every alias resolves to a valid canonical position", func() {
			for label, want := range position.Aliases() {
				got := position.Normalize(label)
				So(got, ShouldEqual, want)
				So(got.Valid(), ShouldBeTrue)
			}
		})

		Convey("Every canonical position normalizes to itself", func() {
			for _, p := range position.All {
				So(position.Normalize(string(p)), ShouldEqual, p)
			}
		})
	})

	Convey("Given edge rusher labels in several spellings", t, func() {
		labels := []string{"EDGE", "edge", "DE", " de ", "ED", "Edge Rusher", "edge-rusher", "OLB/DE", "de/olb", "EDGE_OLB", "rush"}

		Convey("Then they all resolve to one canonical key", func() {
			for _, l := range labels {
				So(position.Normalize(l), ShouldEqual, position.EDGE)
			}
		})
	})

	Convey("Given labels nobody uses", t, func() {
		Convey("Then they resolve to Unknown", func() {
			So(position.Normalize(""), ShouldEqual, position.Unknown)
			So(position.Normalize("mascot"), ShouldEqual, position.Unknown)
			So(position.Unknown.Valid(), ShouldBeFalse)
		})
	})

	Convey("Given interior line labels", t, func() {
		Convey("Then guards and centers collapse to IOL", func() {
			for _, l := range []string{"G", "LG", "rg", "C", "OG", "center"} {
				So(position.Normalize(l), ShouldEqual, position.IOL)
			}
		})
	})
}
