package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/snappulse/snappulse/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given no overrides", t, func() {
		os.Unsetenv("SNAPPULSE_CONFIG")

		Convey("Then Load returns the defaults", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8000")
			So(cfg.Snaps, ShouldResemble, []string{"firefox"})
			So(cfg.PollIntervalSeconds, ShouldEqual, 1800)
			So(cfg.ForwardTimeoutSeconds, ShouldEqual, 30)
			So(cfg.RelayTimeoutSeconds, ShouldEqual, 30)
			So(cfg.SnapStoreURL, ShouldEqual, "https://api.snapcraft.io")
		})
	})

	Convey("Given environment overrides", t, func() {
		So(os.Setenv("SNAPPULSE_ADDR", ":9000"), ShouldBeNil)
		So(os.Setenv("SNAPPULSE_POLL_INTERVAL_SECONDS", "60"), ShouldBeNil)
		So(os.Setenv("SNAPPULSE_SNAPS", "firefox,chromium,discord"), ShouldBeNil)
		So(os.Setenv("SNAPPULSE_RELAY_TIMEOUT_SECONDS", "5"), ShouldBeNil)
		defer func() {
			os.Unsetenv("SNAPPULSE_ADDR")
			os.Unsetenv("SNAPPULSE_POLL_INTERVAL_SECONDS")
			os.Unsetenv("SNAPPULSE_SNAPS")
			os.Unsetenv("SNAPPULSE_RELAY_TIMEOUT_SECONDS")
		}()

		Convey("Then env wins over defaults", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9000")
			So(cfg.PollIntervalSeconds, ShouldEqual, 60)
			So(cfg.RelayTimeoutSeconds, ShouldEqual, 5)
		})

		Convey("And a comma-separated snap list becomes one entry per snap", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Snaps, ShouldResemble, []string{"firefox", "chromium", "discord"})
		})
	})

	Convey("Given a YAML config file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "snappulse.yaml")
		yaml := "addr: \":7070\"\nsnaps:\n  - code\n  - vlc\nworker_count: 2\n"
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
		So(os.Setenv("SNAPPULSE_CONFIG", path), ShouldBeNil)
		defer os.Unsetenv("SNAPPULSE_CONFIG")

		Convey("Then file values override defaults", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.Snaps, ShouldResemble, []string{"code", "vlc"})
			So(cfg.WorkerCount, ShouldEqual, 2)
		})

		Convey("And env still wins over the file", func() {
			So(os.Setenv("SNAPPULSE_ADDR", ":6060"), ShouldBeNil)
			defer os.Unsetenv("SNAPPULSE_ADDR")
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
		})

		Convey("And a missing file is a load error", func() {
			So(os.Setenv("SNAPPULSE_CONFIG", filepath.Join(dir, "absent.yaml")), ShouldBeNil)
			_, err := config.Load(context.Background())
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given default config", t, func() {
		cfg := config.New()

		Convey("Then both binaries accept it", func() {
			So(cfg.ValidateAPI(), ShouldBeNil)
			So(cfg.ValidateCollector(), ShouldBeNil)
		})

		Convey("Then the api rejects an empty addr", func() {
			cfg.Addr = ""
			So(errors.Is(cfg.ValidateAPI(), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Then the collector rejects an empty snap list", func() {
			cfg.Snaps = nil
			So(errors.Is(cfg.ValidateCollector(), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Then the collector rejects a non-positive interval", func() {
			cfg.PollIntervalSeconds = 0
			So(errors.Is(cfg.ValidateCollector(), config.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Then the collector rejects a missing ingest url", func() {
			cfg.IngestURL = ""
			So(errors.Is(cfg.ValidateCollector(), config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
