package ingest_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/snappulse/snappulse/internal/adapters/ingest"
	"github.com/snappulse/snappulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClientForward(t *testing.T) {
	rec := model.SnapMetricRecord{
		SnapName:           "firefox",
		Channel:            model.ChannelStable,
		DownloadTotal:      150000,
		DownloadLast30Days: 12000,
		Rating:             4.2,
		Version:            "128.0",
		Confinement:        "strict",
		Grade:              "stable",
		Publisher:          "Mozilla",
	}

	Convey("Given an api stub accepting ingests", t, func() {
		var gotPath string
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"success"}`))
		}))
		defer srv.Close()

		Convey("When forwarding a record", func() {
			err := ingest.NewClient(srv.URL).Forward(context.Background(), rec)
			So(err, ShouldBeNil)

			Convey("Then the record is posted to /ingest", func() {
				So(gotPath, ShouldEqual, "/ingest")
				var posted model.SnapMetricRecord
				So(json.Unmarshal(gotBody, &posted), ShouldBeNil)
				So(posted.SnapName, ShouldEqual, "firefox")
				So(posted.DownloadTotal, ShouldEqual, 150000)
			})
		})
	})

	Convey("Given an api stub rejecting ingests", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"invalid"}`, http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		Convey("Then Forward returns a typed failure", func() {
			err := ingest.NewClient(srv.URL).Forward(context.Background(), rec)
			So(errors.Is(err, ingest.ErrForwardFailed), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable api", t, func() {
		Convey("Then Forward fails typed instead of raising", func() {
			client := ingest.NewClient("http://127.0.0.1:1", ingest.WithTimeout(200*time.Millisecond))
			err := client.Forward(context.Background(), rec)
			So(errors.Is(err, ingest.ErrForwardFailed), ShouldBeTrue)
		})
	})
}
