package worker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	queue "github.com/okian/offseason/internal/adapters/mq/queue"
	worker "github.com/okian/offseason/internal/adapters/mq/worker"
	model "github.com/okian/offseason/internal/domain/model"
	logging "github.com/okian/offseason/pkg/logger"
)

type fakePublisher struct {
	mu        sync.Mutex
	published []string
	failures  map[string]int // remaining failures per event id
	calls     map[string]int
	delay     time.Duration
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{failures: map[string]int{}, calls: map[string]int{}}
}

func (f *fakePublisher) Name() string { return "fake" }

func (f *fakePublisher) Publish(ctx context.Context, e model.Event) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[e.EventID]++
	if f.failures[e.EventID] > 0 {
		f.failures[e.EventID]--
		return errors.New("transport down")
	}
	f.published = append(f.published, e.EventID)
	return nil
}

func (f *fakePublisher) snapshot() ([]string, map[string]int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make(map[string]int, len(f.calls))
	for k, v := range f.calls {
		calls[k] = v
	}
	return append([]string(nil), f.published...), calls
}

func ev(id string) model.Event {
	return model.Event{EventID: id, Type: model.EventPickMade, SessionID: "s-1", TS: time.Now()}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker over a queue", t, func() {
		_ = logging.Init(logging.WithWriter(io.Discard))

		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		pub := newFakePublisher()
		w := worker.NewInMemoryWorker(q, pub, worker.WithName("test-worker"), worker.WithRetries(2))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		convey.Convey("When events are queued and the queue closes", func() {
			convey.So(q.Enqueue(ctx, ev("e1")), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, ev("e2")), convey.ShouldBeNil)
			convey.So(q.Close(), convey.ShouldBeNil)
			w.Run(ctx)

			convey.Convey("Then each is published in order and Run returns", func() {
				published, _ := pub.snapshot()
				convey.So(published, convey.ShouldResemble, []string{"e1", "e2"})
			})
		})

		convey.Convey("When the publisher fails transiently", func() {
			pub.failures["e1"] = 2
			convey.So(q.Enqueue(ctx, ev("e1")), convey.ShouldBeNil)
			convey.So(q.Close(), convey.ShouldBeNil)
			w.Run(ctx)

			convey.Convey("Then retries deliver it", func() {
				published, calls := pub.snapshot()
				convey.So(published, convey.ShouldResemble, []string{"e1"})
				convey.So(calls["e1"], convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the publisher keeps failing", func() {
			pub.failures["e1"] = 10
			convey.So(q.Enqueue(ctx, ev("e1")), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, ev("e2")), convey.ShouldBeNil)
			convey.So(q.Close(), convey.ShouldBeNil)
			w.Run(ctx)

			convey.Convey("Then the event is dropped and the next one still goes out", func() {
				published, calls := pub.snapshot()
				convey.So(published, convey.ShouldResemble, []string{"e2"})
				convey.So(calls["e1"], convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When shut down while idle", func() {
			go w.Run(ctx)
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()

			convey.Convey("Then it stops promptly, and again is harmless", func() {
				convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
				convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			done := make(chan struct{})
			go func() {
				w.Run(ctx)
				close(done)
			}()
			cancel()

			convey.Convey("Then Run returns", func() {
				select {
				case <-done:
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(time.Second):
					convey.So("run did not return", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of four workers", t, func() {
		_ = logging.Init(logging.WithWriter(io.Discard))

		q := queue.NewInMemoryQueue(queue.WithCapacity(256))
		pub := newFakePublisher()
		pool := worker.NewPool(4, q, pub)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		convey.So(pool.Size(), convey.ShouldEqual, 4)
		pool.Start(ctx)

		convey.Convey("When many events are queued and the pool shuts down", func() {
			for i := 0; i < 200; i++ {
				convey.So(q.Enqueue(ctx, ev(fmt.Sprintf("e%03d", i))), convey.ShouldBeNil)
			}
			sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer scancel()
			err := pool.Shutdown(sctx)

			convey.Convey("Then the queue is drained before the workers stop", func() {
				convey.So(err, convey.ShouldBeNil)
				published, _ := pub.snapshot()
				convey.So(len(published), convey.ShouldEqual, 200)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a pool whose publisher is too slow to drain", t, func() {
		_ = logging.Init(logging.WithWriter(io.Discard))

		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		pub := newFakePublisher()
		pub.delay = 200 * time.Millisecond
		pool := worker.NewPool(1, q, pub)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		for i := 0; i < 20; i++ {
			convey.So(q.Enqueue(ctx, ev(fmt.Sprintf("e%d", i))), convey.ShouldBeNil)
		}
		sctx, scancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer scancel()

		convey.Convey("Then shutdown reports the deadline", func() {
			err := pool.Shutdown(sctx)
			convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a pool with no worker count", t, func() {
		_ = logging.Init(logging.WithWriter(io.Discard))
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), newFakePublisher())

		convey.Convey("Then it sizes itself to the machine", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}
