package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/offseason/internal/adapters/repository"
	service "github.com/okian/offseason/internal/app"
	"github.com/okian/offseason/internal/domain/captable"
	"github.com/okian/offseason/internal/domain/draft"
)

func TestErrorKinds(t *testing.T) {
	Convey("Given API errors", t, func() {
		cause := errors.New("boom")

		Convey("Then both kind and cause are visible to errors.Is", func() {
			err := WrapKind("api.op", ErrBadRequest, cause)
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("Then the short forms render", func() {
			So(NewKind("api.op", ErrBadRequest).Error(), ShouldEqual, "api.op: bad request")
			So(Wrap("api.op", cause).Error(), ShouldEqual, "api.op: boom")
			So(Wrap("api.op", nil), ShouldBeNil)
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given domain errors wrapped on the way up", t, func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{captable.ErrInvalidTerm, http.StatusBadRequest, "bad_request"},
			{captable.ErrInvalidValue, http.StatusBadRequest, "bad_request"},
			{draft.ErrInvalidTrade, http.StatusBadRequest, "bad_request"},
			{repository.ErrSessionNotFound, http.StatusNotFound, "not_found"},
			{draft.ErrPickNotFound, http.StatusNotFound, "not_found"},
			{draft.ErrNotYourPick, http.StatusConflict, "conflict"},
			{draft.ErrSessionPaused, http.StatusConflict, "conflict"},
			{service.ErrNotStarted, http.StatusServiceUnavailable, "unavailable"},
			{errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
		}

		Convey("Then each maps to its status", func() {
			for _, c := range cases {
				status, code := classify(Wrap("api.op", fmt.Errorf("layer: %w", c.err)))
				So(status, ShouldEqual, c.status)
				So(code, ShouldEqual, c.code)
			}
		})
	})
}
