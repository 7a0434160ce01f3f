package refresh_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pucklab/puckrank/internal/adapters/refresh"
	"github.com/pucklab/puckrank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeRefresher records runs and can be slowed down or made to fail.
type fakeRefresher struct {
	mu       sync.Mutex
	runs     []refresh.Trigger
	delay    time.Duration
	err      error
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeRefresher) Refresh(ctx context.Context, t refresh.Trigger) error {
	cur := f.inFlight.Add(1)
	if cur > f.maxSeen.Load() {
		f.maxSeen.Store(cur)
	}
	defer f.inFlight.Add(-1)

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.runs = append(f.runs, t)
	f.mu.Unlock()
	return f.err
}

func (f *fakeRefresher) runCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a trigger queue", t, func() {
		ctx := context.Background()

		Convey("When enqueueing within capacity", func() {
			q := refresh.NewInMemoryQueue(refresh.WithCapacity(2))
			defer func() { _ = q.Close() }()

			So(q.Enqueue(ctx, refresh.Trigger{ID: "t1", Source: "manual"}), ShouldBeTrue)
			So(q.Enqueue(ctx, refresh.Trigger{ID: "t2", Source: "manual"}), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)
		})

		Convey("When the queue is full", func() {
			q := refresh.NewInMemoryQueue(refresh.WithCapacity(1))
			defer func() { _ = q.Close() }()

			So(q.Enqueue(ctx, refresh.Trigger{ID: "t1"}), ShouldBeTrue)

			Convey("Then further triggers are rejected, not blocked", func() {
				So(q.Enqueue(ctx, refresh.Trigger{ID: "t2"}), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the queue is closed", func() {
			q := refresh.NewInMemoryQueue()
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and rejects triggers", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, refresh.Trigger{ID: "t1"}), ShouldBeFalse)
				So(q.Close(), ShouldBeNil) // double close is safe
			})
		})

		Convey("When dequeuing", func() {
			q := refresh.NewInMemoryQueue()
			So(q.Enqueue(ctx, refresh.Trigger{ID: "t1"}), ShouldBeTrue)

			ch := q.Dequeue(ctx)

			Convey("Then queued triggers arrive in order", func() {
				got := <-ch
				So(got.ID, ShouldEqual, "t1")
			})

			Convey("And closing the queue closes the channel", func() {
				<-ch
				So(q.Close(), ShouldBeNil)

				_, open := <-ch
				So(open, ShouldBeFalse)
			})
		})
	})
}

func TestInMemoryRunner(t *testing.T) {
	Convey("Given a runner over a trigger queue", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		Convey("When triggers arrive", func() {
			q := refresh.NewInMemoryQueue()
			f := &fakeRefresher{}
			r := refresh.NewInMemoryRunner(q, f)

			go r.Run(ctx)

			So(q.Enqueue(ctx, refresh.Trigger{ID: "t1", Source: "manual"}), ShouldBeTrue)

			Convey("Then the refresher runs", func() {
				So(waitFor(func() bool { return f.runCount() == 1 }), ShouldBeTrue)
			})

			_ = q.Close()
			So(r.Shutdown(context.Background()), ShouldBeNil)
		})

		Convey("When a burst of triggers lands behind a slow refresh", func() {
			q := refresh.NewInMemoryQueue(refresh.WithCapacity(16))
			f := &fakeRefresher{delay: 50 * time.Millisecond}
			r := refresh.NewInMemoryRunner(q, f)

			go r.Run(ctx)

			for i := 0; i < 6; i++ {
				q.Enqueue(ctx, refresh.Trigger{ID: "burst", Source: "manual"})
			}

			Convey("Then at most one refresh is ever in flight", func() {
				So(waitFor(func() bool { return f.runCount() >= 1 && q.Len(ctx) == 0 }), ShouldBeTrue)
				So(f.maxSeen.Load(), ShouldEqual, 1)
			})

			Convey("And the burst collapses into few runs", func() {
				So(waitFor(func() bool { return q.Len(ctx) == 0 && f.inFlight.Load() == 0 }), ShouldBeTrue)
				So(f.runCount(), ShouldBeLessThan, 6)
			})

			_ = q.Close()
			So(r.Shutdown(context.Background()), ShouldBeNil)
		})

		Convey("When the refresher fails", func() {
			q := refresh.NewInMemoryQueue()
			f := &fakeRefresher{err: context.DeadlineExceeded}
			r := refresh.NewInMemoryRunner(q, f, refresh.WithName("failing"))

			go r.Run(ctx)

			q.Enqueue(ctx, refresh.Trigger{ID: "t1"})
			q.Enqueue(ctx, refresh.Trigger{ID: "t2"})

			Convey("Then the runner keeps consuming triggers", func() {
				So(waitFor(func() bool { return f.runCount() >= 1 }), ShouldBeTrue)
			})

			_ = q.Close()
			So(r.Shutdown(context.Background()), ShouldBeNil)
		})

		Convey("When the context is canceled", func() {
			q := refresh.NewInMemoryQueue()
			f := &fakeRefresher{}
			r := refresh.NewInMemoryRunner(q, f)

			runCtx, runCancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				r.Run(runCtx)
				close(done)
			}()

			runCancel()

			Convey("Then the run loop exits", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					So("runner did not stop", ShouldBeEmpty)
				}
			})
		})
	})
}

// waitFor polls cond for up to two seconds.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
