package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	repository "github.com/snappulse/snappulse/internal/adapters/repository"
	"github.com/snappulse/snappulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func record(snap string, ch model.Channel, rating float64, last30 int64) model.SnapMetricRecord {
	return model.SnapMetricRecord{
		SnapName:           snap,
		Channel:            ch,
		DownloadTotal:      last30 * 10,
		DownloadLast30Days: last30,
		Rating:             rating,
		Version:            "1.0.0",
		Confinement:        "strict",
		Grade:              "stable",
		Publisher:          "Test Publisher",
	}
}

func TestMemStorePut(t *testing.T) {
	Convey("Given an empty store with a pinned clock", t, func() {
		ctx := context.Background()
		pinned := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		store := repository.NewMemStore(
			repository.WithClock(func() time.Time { return pinned }),
		)

		Convey("When a record is ingested", func() {
			stored, err := store.Put(ctx, record("firefox", model.ChannelStable, 4.2, 12000))
			So(err, ShouldBeNil)

			Convey("Then trending_score is derived, never trusted", func() {
				So(stored.TrendingScore, ShouldEqual, 54.0)
			})

			Convey("Then last_updated comes from the store clock", func() {
				So(stored.LastUpdated.Equal(pinned), ShouldBeTrue)
			})

			Convey("And a caller-supplied trending value is overwritten", func() {
				in := record("firefox", model.ChannelStable, 4.2, 12000)
				in.TrendingScore = 999.9
				in.LastUpdated = pinned.Add(-time.Hour)
				stored, err := store.Put(ctx, in)
				So(err, ShouldBeNil)
				So(stored.TrendingScore, ShouldEqual, 54.0)
				So(stored.LastUpdated.Equal(pinned), ShouldBeTrue)
			})
		})

		Convey("When the same key is ingested twice", func() {
			_, err := store.Put(ctx, record("firefox", model.ChannelStable, 4.2, 12000))
			So(err, ShouldBeNil)
			_, err = store.Put(ctx, record("firefox", model.ChannelStable, 3.0, 1000))
			So(err, ShouldBeNil)

			Convey("Then only the second payload's values remain", func() {
				got, err := store.Get(ctx, "firefox", model.ChannelStable)
				So(err, ShouldBeNil)
				So(got.Rating, ShouldEqual, 3.0)
				So(got.DownloadLast30Days, ShouldEqual, 1000)
				So(got.TrendingScore, ShouldEqual, 31.0)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the input is invalid", func() {
			_, err := store.Put(ctx, record("", model.ChannelStable, 4.2, 12000))

			Convey("Then nothing is stored", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})
	})
}

func TestMemStoreGet(t *testing.T) {
	Convey("Given a store with one record", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		_, err := store.Put(ctx, record("firefox", model.ChannelStable, 4.2, 12000))
		So(err, ShouldBeNil)

		Convey("Then the exact key is retrievable", func() {
			got, err := store.Get(ctx, "firefox", model.ChannelStable)
			So(err, ShouldBeNil)
			So(got.SnapName, ShouldEqual, "firefox")
		})

		Convey("Then an uningested key is ErrNotFound, never fabricated", func() {
			_, err := store.Get(ctx, "firefox", model.ChannelEdge)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

			_, err = store.Get(ctx, "unknown-snap", model.ChannelStable)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestMemStoreAllChannels(t *testing.T) {
	Convey("Given a snap with two of four channels populated", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		_, err := store.Put(ctx, record("firefox", model.ChannelStable, 4.2, 12000))
		So(err, ShouldBeNil)
		_, err = store.Put(ctx, record("firefox", model.ChannelBeta, 4.0, 800))
		So(err, ShouldBeNil)

		Convey("Then only present channels appear", func() {
			chans, err := store.AllChannels(ctx, "firefox")
			So(err, ShouldBeNil)
			So(len(chans), ShouldEqual, 2)
			So(chans, ShouldContainKey, model.ChannelStable)
			So(chans, ShouldContainKey, model.ChannelBeta)
			So(chans, ShouldNotContainKey, model.ChannelCandidate)
		})

		Convey("Then other snaps do not leak in", func() {
			_, err := store.Put(ctx, record("discord", model.ChannelStable, 4.1, 9000))
			So(err, ShouldBeNil)
			chans, err := store.AllChannels(ctx, "firefox")
			So(err, ShouldBeNil)
			So(len(chans), ShouldEqual, 2)
		})
	})
}

func TestMemStoreTopN(t *testing.T) {
	Convey("Given a store with several snaps", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()

		// Distinct scores plus a deliberate tie between discord and slack.
		_, err := store.Put(ctx, record("firefox", model.ChannelStable, 4.5, 30000)) // 75.0
		So(err, ShouldBeNil)
		_, err = store.Put(ctx, record("slack", model.ChannelStable, 4.0, 10000)) // 50.0
		So(err, ShouldBeNil)
		_, err = store.Put(ctx, record("discord", model.ChannelStable, 4.0, 10000)) // 50.0
		So(err, ShouldBeNil)
		_, err = store.Put(ctx, record("gimp", model.ChannelStable, 3.0, 2000)) // 32.0
		So(err, ShouldBeNil)

		Convey("Then entries are sorted by score desc, name asc on ties", func() {
			top, err := store.TopN(ctx, 10)
			So(err, ShouldBeNil)
			So(len(top), ShouldEqual, 4)
			So(top[0].SnapName, ShouldEqual, "firefox")
			So(top[1].SnapName, ShouldEqual, "discord")
			So(top[2].SnapName, ShouldEqual, "slack")
			So(top[3].SnapName, ShouldEqual, "gimp")
		})

		Convey("Then the limit bounds the result", func() {
			top, err := store.TopN(ctx, 2)
			So(err, ShouldBeNil)
			So(len(top), ShouldEqual, 2)
			So(top[0].SnapName, ShouldEqual, "firefox")
		})

		Convey("Then a non-positive limit is rejected", func() {
			_, err := store.TopN(ctx, 0)
			So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
		})
	})
}

func TestMemStoreConcurrency(t *testing.T) {
	Convey("Given concurrent writers to distinct and shared keys", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				snap := fmt.Sprintf("snap-%d", i%4)
				for j := 0; j < 50; j++ {
					_, _ = store.Put(ctx, record(snap, model.ChannelStable, 4.0, int64(j)))
					_, _ = store.Get(ctx, snap, model.ChannelStable)
				}
			}(i)
		}
		wg.Wait()

		Convey("Then every surviving record is fully formed", func() {
			So(store.Count(ctx), ShouldEqual, 4)
			for i := 0; i < 4; i++ {
				got, err := store.Get(ctx, fmt.Sprintf("snap-%d", i), model.ChannelStable)
				So(err, ShouldBeNil)
				So(got.Rating, ShouldEqual, 4.0)
				So(got.LastUpdated.IsZero(), ShouldBeFalse)
			}
		})
	})
}
