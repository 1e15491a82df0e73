package collector_test

import (
	"context"
	"testing"

	"github.com/snappulse/snappulse/internal/collector"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQueue(t *testing.T) {
	Convey("Given a queue with capacity two", t, func() {
		q := collector.NewQueue(2)
		ctx := context.Background()

		Convey("Then enqueues succeed up to capacity", func() {
			So(q.Enqueue(ctx, collector.FetchJob{CycleID: "a", Snap: "firefox"}), ShouldBeTrue)
			So(q.Enqueue(ctx, collector.FetchJob{CycleID: "b", Snap: "discord"}), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("And a full queue rejects without blocking", func() {
				So(q.Enqueue(ctx, collector.FetchJob{CycleID: "c", Snap: "slack"}), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And jobs come out in order", func() {
				job := <-q.Dequeue(ctx)
				So(job.Snap, ShouldEqual, "firefox")
				job = <-q.Dequeue(ctx)
				So(job.Snap, ShouldEqual, "discord")
			})
		})

		Convey("When the queue is closed", func() {
			q.Close()

			Convey("Then enqueues are rejected", func() {
				So(q.Enqueue(ctx, collector.FetchJob{CycleID: "a", Snap: "firefox"}), ShouldBeFalse)
			})

			Convey("And the dequeue channel drains closed", func() {
				_, ok := <-q.Dequeue(ctx)
				So(ok, ShouldBeFalse)
			})
		})
	})
}
