package seed_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/snappulse/snappulse/internal/domain/model"
	"github.com/snappulse/snappulse/internal/seed"
	"github.com/snappulse/snappulse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given generated demo records for one snap", t, func() {
		records := seed.Generate("firefox")

		Convey("Then every channel gets one valid record", func() {
			So(len(records), ShouldEqual, 4)
			seen := map[model.Channel]bool{}
			for _, rec := range records {
				So(rec.Validate(), ShouldBeNil)
				So(rec.SnapName, ShouldEqual, "firefox")
				So(rec.Publisher, ShouldContainSubstring, "seeded")
				seen[rec.Channel] = true
			}
			So(len(seen), ShouldEqual, 4)
		})

		Convey("And stable carries the largest volume", func() {
			var stable, edge int64
			for _, rec := range records {
				switch rec.Channel {
				case model.ChannelStable:
					stable = rec.DownloadTotal
				case model.ChannelEdge:
					edge = rec.DownloadTotal
				}
			}
			So(stable, ShouldBeGreaterThan, edge)
		})
	})
}

func TestRunner(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}

	Convey("Given a stub api accepting ingests", t, func() {
		var posts atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			posts.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"success"}`))
		}))
		defer srv.Close()

		Convey("When the runner seeds two snaps", func() {
			r := seed.NewRunner(srv.URL, 5*time.Second, seed.WithSnaps([]string{"firefox", "gimp"}))
			So(r.Run(t.Context()), ShouldBeNil)

			Convey("Then one record per channel per snap was posted", func() {
				So(posts.Load(), ShouldEqual, 8)
			})
		})
	})
}
