package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/offseason/internal/domain/model"
)

func event(id string) Event {
	return Event{EventID: id, Type: model.EventPickMade, SessionID: "s-1", TS: time.Unix(1700000000, 0)}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue of capacity two", t, func() {
		q := NewInMemoryQueue(WithCapacity(2))
		ctx := context.Background()

		So(q.Len(), ShouldEqual, 0)
		So(q.Capacity(), ShouldEqual, 2)

		Convey("When an event is enqueued and dequeued", func() {
			So(q.Enqueue(ctx, event("e1")), ShouldBeNil)
			So(q.Len(), ShouldEqual, 1)

			got := <-q.Dequeue(ctx)

			Convey("Then it comes out intact", func() {
				So(got.EventID, ShouldEqual, "e1")
				So(got.Type, ShouldEqual, model.EventPickMade)
				So(q.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the queue is full", func() {
			So(q.Enqueue(ctx, event("e1")), ShouldBeNil)
			So(q.Enqueue(ctx, event("e2")), ShouldBeNil)
			err := q.Enqueue(ctx, event("e3"))

			Convey("Then the event is dropped with ErrFull", func() {
				So(errors.Is(err, ErrFull), ShouldBeTrue)
				So(q.Len(), ShouldEqual, 2)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			err := q.Enqueue(cctx, event("e1"))

			Convey("Then nothing is queued", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(q.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, event("e1")), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue fails but queued events drain", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(errors.Is(q.Enqueue(ctx, event("e2")), ErrClosed), ShouldBeTrue)

				var drained []string
				for e := range q.Dequeue(ctx) {
					drained = append(drained, e.EventID)
				}
				So(drained, ShouldResemble, []string{"e1"})
			})

			Convey("Then closing again is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}

func TestInMemoryQueueConcurrency(t *testing.T) {
	Convey("Given producers and consumers sharing a queue", t, func() {
		q := NewInMemoryQueue(WithCapacity(64))
		ctx := context.Background()
		const producers, perProducer = 8, 50

		var (
			mu   sync.Mutex
			seen = map[string]bool{}
			cwg  sync.WaitGroup
		)
		for i := 0; i < 4; i++ {
			cwg.Add(1)
			go func() {
				defer cwg.Done()
				for e := range q.Dequeue(ctx) {
					mu.Lock()
					seen[e.EventID] = true
					mu.Unlock()
				}
			}()
		}

		var pwg sync.WaitGroup
		for p := 0; p < producers; p++ {
			pwg.Add(1)
			go func(p int) {
				defer pwg.Done()
				for j := 0; j < perProducer; j++ {
					e := event(fmt.Sprintf("e-%d-%d", p, j))
					for errors.Is(q.Enqueue(ctx, e), ErrFull) {
						time.Sleep(time.Millisecond)
					}
				}
			}(p)
		}
		pwg.Wait()
		So(q.Close(), ShouldBeNil)
		cwg.Wait()

		Convey("Then every event is delivered", func() {
			So(len(seen), ShouldEqual, producers*perProducer)
		})
	})
}
