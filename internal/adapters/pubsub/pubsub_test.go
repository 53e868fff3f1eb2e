package pubsub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/offseason/internal/domain/model"
	"github.com/okian/offseason/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.Init(logger.WithWriter(io.Discard))
	os.Exit(m.Run())
}

func draftEvent(id string, t model.EventType) model.Event {
	return model.Event{
		EventID:   id,
		Type:      t,
		SessionID: "s-1",
		Team:      "BUF",
		Payload:   map[string]any{"slot": 3},
		TS:        time.Unix(1700000000, 0).UTC(),
	}
}

func TestMemoryPublisher(t *testing.T) {
	Convey("Given a memory publisher retaining three events", t, func() {
		p := NewMemoryPublisher(3)
		ctx := context.Background()
		So(p.Name(), ShouldEqual, "memory")

		Convey("When a subscriber is attached", func() {
			ch := p.Subscribe()
			So(p.Publish(ctx, draftEvent("e1", model.EventPickMade)), ShouldBeNil)

			Convey("Then it receives the event", func() {
				got := <-ch
				So(got.EventID, ShouldEqual, "e1")
				So(got.Payload["slot"], ShouldEqual, 3)
			})

			Convey("Then unsubscribing closes the channel", func() {
				<-ch
				p.Unsubscribe(ch)
				_, ok := <-ch
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When more events are published than retained", func() {
			for i := 1; i <= 5; i++ {
				So(p.Publish(ctx, draftEvent(fmt.Sprintf("e%d", i), model.EventPickMade)), ShouldBeNil)
			}

			Convey("Then only the newest are kept, oldest first", func() {
				recent := p.Recent(0)
				So(len(recent), ShouldEqual, 3)
				So(recent[0].EventID, ShouldEqual, "e3")
				So(recent[2].EventID, ShouldEqual, "e5")
				So(len(p.Recent(2)), ShouldEqual, 2)
				So(p.Recent(2)[0].EventID, ShouldEqual, "e4")
			})
		})

		Convey("When a subscriber stops reading", func() {
			ch := p.Subscribe()
			for i := 0; i < subscriberBuffer+10; i++ {
				So(p.Publish(ctx, draftEvent(fmt.Sprintf("e%d", i), model.EventPickMade)), ShouldBeNil)
			}

			Convey("Then publishing still succeeds and the buffer is full", func() {
				So(len(ch), ShouldEqual, subscriberBuffer)
			})
		})

		Convey("When the publisher is closed", func() {
			ch := p.Subscribe()
			So(p.Close(), ShouldBeNil)

			Convey("Then subscriptions end and publishing fails", func() {
				_, ok := <-ch
				So(ok, ShouldBeFalse)
				So(errors.Is(p.Publish(ctx, draftEvent("late", model.EventPickMade)), ErrClosed), ShouldBeTrue)
				So(p.Close(), ShouldBeNil)
			})
		})
	})
}

func TestMemoryPublisherConcurrentClose(t *testing.T) {
	Convey("Given publishers racing subscribers that leave", t, func() {
		p := NewMemoryPublisher(0)
		ctx := context.Background()
		subs := make([]chan model.Event, 32)
		for i := range subs {
			subs[i] = p.Subscribe()
		}

		var panics atomic.Int64
		guard := func() {
			if recover() != nil {
				panics.Add(1)
			}
		}
		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer guard()
				for i := 0; i < 500; i++ {
					if err := p.Publish(ctx, draftEvent(fmt.Sprintf("e%d", i), model.EventPickMade)); err != nil {
						return
					}
				}
			}()
		}
		for _, ch := range subs[:16] {
			wg.Add(1)
			go func(ch chan model.Event) {
				defer wg.Done()
				defer guard()
				p.Unsubscribe(ch)
			}(ch)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer guard()
			_ = p.Close()
		}()
		wg.Wait()

		Convey("Then nothing sends on a closed channel", func() {
			So(panics.Load(), ShouldEqual, int64(0))
			So(errors.Is(p.Publish(ctx, draftEvent("late", model.EventPickMade)), ErrClosed), ShouldBeTrue)
		})

		Convey("Then every subscription ends up closed", func() {
			for _, ch := range subs {
				for range ch {
				}
			}
		})
	})
}

func TestOpenMemory(t *testing.T) {
	Convey("Given no nats url", t, func() {
		p, err := Open("", "offseason.events", "OFFSEASON")

		Convey("Then the memory publisher is used", func() {
			So(err, ShouldBeNil)
			So(p.Name(), ShouldEqual, "memory")
			So(p.Close(), ShouldBeNil)
		})
	})
}

func TestNATSPublisher(t *testing.T) {
	Convey("Given an embedded JetStream server", t, func() {
		srv, err := StartEmbedded(t.TempDir())
		So(err, ShouldBeNil)
		Reset(srv.Shutdown)

		p, err := NewNATSPublisher(srv.URL(), "offseason.events.", WithStream("TEST"), WithMemoryStorage(), WithMaxAge(time.Hour))
		So(err, ShouldBeNil)
		Reset(func() { _ = p.Close() })

		So(p.Name(), ShouldEqual, "nats")
		So(p.SubjectFor(model.EventPickMade), ShouldEqual, "offseason.events.pick_made")

		Convey("When events are published, one of them twice", func() {
			ctx := context.Background()
			So(p.Publish(ctx, draftEvent("e1", model.EventSessionCreated)), ShouldBeNil)
			So(p.Publish(ctx, draftEvent("e2", model.EventPickMade)), ShouldBeNil)
			So(p.Publish(ctx, draftEvent("e2", model.EventPickMade)), ShouldBeNil)
			So(p.Publish(ctx, draftEvent("e3", model.EventSessionCompleted)), ShouldBeNil)

			got := make(chan model.Event, 10)
			sub, err := p.Subscribe("reader", func(e model.Event) { got <- e })
			So(err, ShouldBeNil)
			Reset(func() { _ = sub.Unsubscribe() })

			Convey("Then a durable consumer reads each event once, in order", func() {
				var ids []string
				timeout := time.After(5 * time.Second)
				for len(ids) < 3 {
					select {
					case e := <-got:
						ids = append(ids, e.EventID)
					case <-timeout:
						So(ids, ShouldResemble, []string{"e1", "e2", "e3"})
						return
					}
				}
				So(ids, ShouldResemble, []string{"e1", "e2", "e3"})

				select {
				case extra := <-got:
					So(extra.EventID, ShouldBeEmpty)
				case <-time.After(200 * time.Millisecond):
				}
			})
		})

		Convey("When a second publisher attaches to the same stream", func() {
			again, err := NewNATSPublisher(srv.URL(), "offseason.events", WithStream("TEST"))

			Convey("Then the existing stream is reused", func() {
				So(err, ShouldBeNil)
				So(again.Close(), ShouldBeNil)
			})
		})

		Convey("When the publisher is closed", func() {
			So(p.Close(), ShouldBeNil)

			Convey("Then publishing fails", func() {
				time.Sleep(50 * time.Millisecond)
				err := p.Publish(context.Background(), draftEvent("late", model.EventPickMade))
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestNATSPublisherErrors(t *testing.T) {
	Convey("Given bad nats settings", t, func() {
		Convey("When nothing listens at the url", func() {
			_, err := NewNATSPublisher("nats://127.0.0.1:1", "offseason.events")
			So(errors.Is(err, ErrConnect), ShouldBeTrue)
		})

		Convey("When the subject is empty", func() {
			_, err := NewNATSPublisher("nats://127.0.0.1:1", "")
			So(errors.Is(err, ErrStream), ShouldBeTrue)
		})
	})
}
