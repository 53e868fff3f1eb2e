package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/offseason/internal/domain/draft"
	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/internal/domain/position"
)

func testSession(id string, created time.Time) *draft.Session {
	pool := make([]draft.Prospect, 12)
	for i := range pool {
		pool[i] = draft.Prospect{
			ID:       fmt.Sprintf("pr-%02d", i+1),
			Position: position.All[i%len(position.All)],
			Rank:     i + 1,
		}
	}
	s, err := draft.NewSession(draft.Config{
		ID:        id,
		Seed:      7,
		Mode:      draft.ModeReal,
		UserTeam:  "BUF",
		Teams:     []string{"ARI", "BUF"},
		Rounds:    3,
		Prospects: pool,
		Now:       created,
	})
	So(err, ShouldBeNil)
	return s
}

func testContract(team, player string) model.Contract {
	return model.Contract{
		PlayerID:    player,
		Team:        team,
		Position:    position.QB,
		Kind:        model.KindFreeAgent,
		Term:        3,
		AnnualValue: 30,
		Guaranteed:  45,
		Schedule:    []float64{27, 30, 33},
		SignedAt:    time.Unix(1700000000, 0).UTC(),
	}
}

// exerciseStore runs the behaviour every backend shares.
func exerciseStore(store Store) {
	ctx := context.Background()
	base := time.Unix(1700000000, 0).UTC()

	Convey("When a missing session is requested", func() {
		_, err := store.Get(ctx, "nope")

		Convey("Then ErrSessionNotFound is returned", func() {
			So(errors.Is(err, ErrSessionNotFound), ShouldBeTrue)
		})
	})

	Convey("When a session is put and read back", func() {
		s := testSession("s-1", base)
		_, err := s.Advance()
		So(err, ShouldBeNil)
		So(store.Put(ctx, s), ShouldBeNil)

		got, err := store.Get(ctx, "s-1")

		Convey("Then the state survives the round trip", func() {
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, "s-1")
			So(got.RNGState, ShouldEqual, s.RNGState)
			So(got.TradeRNGState, ShouldEqual, s.TradeRNGState)
			So(got.CurrentPickIndex, ShouldEqual, 1)
			So(got.Picks, ShouldResemble, s.Picks)
			So(got.Prospects, ShouldResemble, s.Prospects)
			So(got.CreatedAt.Equal(base), ShouldBeTrue)
		})

		Convey("Then mutating the copy does not touch the store", func() {
			got.Paused = true
			again, err := store.Get(ctx, "s-1")
			So(err, ShouldBeNil)
			So(again.Paused, ShouldBeFalse)
		})

		Convey("Then a second put replaces the session", func() {
			So(s.Pause(), ShouldBeNil)
			So(store.Put(ctx, s), ShouldBeNil)
			again, err := store.Get(ctx, "s-1")
			So(err, ShouldBeNil)
			So(again.Paused, ShouldBeTrue)
		})
	})

	Convey("When a session without an id is put", func() {
		err := store.Put(ctx, &draft.Session{})

		Convey("Then it is rejected", func() {
			So(errors.Is(err, ErrInvalidRecord), ShouldBeTrue)
		})
	})

	Convey("When several sessions are listed", func() {
		So(store.Put(ctx, testSession("b", base.Add(time.Minute))), ShouldBeNil)
		So(store.Put(ctx, testSession("a", base.Add(time.Minute))), ShouldBeNil)
		So(store.Put(ctx, testSession("c", base)), ShouldBeNil)

		list, err := store.List(ctx)

		Convey("Then they come back oldest first, ties by id", func() {
			So(err, ShouldBeNil)
			ids := make([]string, len(list))
			for i, s := range list {
				ids[i] = s.ID
			}
			So(ids, ShouldResemble, []string{"c", "a", "b"})
		})
	})

	Convey("When contracts are added", func() {
		So(store.AddContract(ctx, testContract("BUF", "p-1")), ShouldBeNil)
		So(store.AddContract(ctx, testContract("ARI", "p-2")), ShouldBeNil)
		So(store.AddContract(ctx, testContract("BUF", "p-3")), ShouldBeNil)

		buf, err := store.Contracts(ctx, "BUF")

		Convey("Then each team sees its own in signing order", func() {
			So(err, ShouldBeNil)
			So(len(buf), ShouldEqual, 2)
			So(buf[0].PlayerID, ShouldEqual, "p-1")
			So(buf[1].PlayerID, ShouldEqual, "p-3")
			So(buf[0].Schedule, ShouldResemble, []float64{27, 30, 33})
			So(buf[0].Kind, ShouldEqual, model.KindFreeAgent)
			So(buf[0].Position, ShouldEqual, position.QB)
			So(buf[0].SignedAt.Equal(time.Unix(1700000000, 0)), ShouldBeTrue)
		})

		Convey("Then an unknown team has none", func() {
			none, err := store.Contracts(ctx, "DAL")
			So(err, ShouldBeNil)
			So(len(none), ShouldEqual, 0)
		})
	})

	Convey("When a contract has no team", func() {
		err := store.AddContract(ctx, testContract("", "p-9"))

		Convey("Then it is rejected", func() {
			So(errors.Is(err, ErrInvalidRecord), ShouldBeTrue)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		store, err := Open(context.Background(), DriverMemory, "")
		So(err, ShouldBeNil)
		Reset(func() { _ = store.Close() })

		exerciseStore(store)
	})
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a sqlite store", t, func() {
		dsn := filepath.Join(t.TempDir(), "offseason.db")
		store, err := Open(context.Background(), DriverSQLite, dsn, WithMaxOpenConns(8))
		So(err, ShouldBeNil)
		Reset(func() { _ = store.Close() })

		exerciseStore(store)

		Convey("When the database is reopened", func() {
			So(store.Put(context.Background(), testSession("keep", time.Unix(1700000000, 0).UTC())), ShouldBeNil)
			So(store.Close(), ShouldBeNil)

			again, err := Open(context.Background(), DriverSQLite, dsn)
			So(err, ShouldBeNil)
			defer func() { _ = again.Close() }()

			Convey("Then migrations are not reapplied and data is kept", func() {
				got, err := again.Get(context.Background(), "keep")
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, "keep")
			})
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Given store drivers", t, func() {
		ctx := context.Background()

		Convey("When the driver is unknown", func() {
			_, err := Open(ctx, "mongo", "x")
			So(errors.Is(err, ErrUnsupportedDriver), ShouldBeTrue)
		})

		Convey("When a sql driver has no dsn", func() {
			_, err := Open(ctx, DriverPostgres, " ")
			So(errors.Is(err, ErrUnsupportedDriver), ShouldBeTrue)
		})

		Convey("When the driver is empty", func() {
			store, err := Open(ctx, "", "")
			So(err, ShouldBeNil)
			_, ok := store.(*MemoryStore)
			So(ok, ShouldBeTrue)
		})
	})
}
