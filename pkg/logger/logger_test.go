package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInit(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat("json")), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Named("draft").Info(ctx, "pick made", String("session_id", "s-1"), Int("slot", 3), Bool("by_user", true))

			Convey("Then the record carries the fields, the component and the source", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "pick made")
				So(rec["session_id"], ShouldEqual, "s-1")
				So(rec["slot"], ShouldEqual, 3.0)
				So(rec["component"], ShouldEqual, "draft")
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown", Error(errors.New("boom")))

			Convey("Then lower levels are dropped", func() {
				out := buf.String()
				So(out, ShouldNotContainSubstring, "hidden")
				So(out, ShouldContainSubstring, "shown")
				So(out, ShouldContainSubstring, "boom")
			})
		})

		Convey("When debug is enabled", func() {
			So(SetLevelString(" DEBUG "), ShouldBeNil)
			Get().Debug(ctx, "details")
			So(buf.String(), ShouldContainSubstring, "details")
		})
	})

	Convey("Given a text logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		Get().Error(context.Background(), "failed", String("op", "store.put"))
		So(strings.Contains(buf.String(), "op=store.put"), ShouldBeTrue)
	})

	Convey("Given bad settings", t, func() {
		So(Init(WithFormat("xml")), ShouldNotBeNil)
		So(SetLevelString("loud"), ShouldNotBeNil)
	})

	Convey("Given a fatal log", t, func() {
		var buf bytes.Buffer
		code := -1
		l := &slogLogger{Logger: nil, exit: func(c int) { code = c }}
		So(Init(WithWriter(&buf)), ShouldBeNil)
		l.Logger = Get().(*slogLogger).Logger
		l.Fatal(context.Background(), "giving up")
		So(code, ShouldEqual, 1)
		So(buf.String(), ShouldContainSubstring, "giving up")
	})
}
