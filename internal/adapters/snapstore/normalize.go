package snapstore

import (
	"github.com/snappulse/snappulse/internal/domain/model"
)

// Field defaults substituted when the catalog omits a value. The catalog
// does not expose download counts or ratings at all, so those always
// start at their zero defaults and stay honest rather than fabricated.
const (
	defaultConfinement = "strict"
	defaultGrade       = "stable"
)

// Normalize maps a catalog payload onto metric records, one per known
// channel present in the channel map. Every field access tolerates
// absence: missing strings become empty or a documented default, missing
// numbers become zero, and a single bad entry never discards the rest.
func Normalize(snap string, info *SnapInfo) []model.SnapMetricRecord {
	if info == nil {
		return nil
	}

	name := info.Name
	if name == "" {
		name = snap
	}

	seen := make(map[model.Channel]bool)
	records := make([]model.SnapMetricRecord, 0, len(model.Channels()))

	for _, entry := range info.ChannelMap {
		// Tracks other than "latest" repeat the risk names; the first
		// entry per risk wins, which the catalog orders latest-first.
		if entry.Channel.Track != "" && entry.Channel.Track != "latest" {
			continue
		}

		channel, err := model.ParseChannel(entry.Channel.Risk)
		if err != nil || seen[channel] {
			continue
		}
		seen[channel] = true

		records = append(records, model.SnapMetricRecord{
			SnapName:    name,
			Channel:     channel,
			Version:     entry.Version,
			Confinement: normalizeConfinement(entry.Confinement),
			Grade:       gradeForRisk(entry.Channel.Risk),
			Publisher:   info.Snap.Publisher.DisplayName,
			// Public catalog instances omit download counts and ratings;
			// zero means "not reported", and the derived score follows.
			DownloadTotal:      nonNegative(entry.DownloadTotal),
			DownloadLast30Days: nonNegative(entry.DownloadLast30Days),
			Rating:             clampRating(info.Snap.Rating),
		})
	}

	return records
}

func normalizeConfinement(c string) string {
	switch c {
	case "strict", "classic", "devmode":
		return c
	}
	return defaultConfinement
}

// gradeForRisk maps a channel risk onto the two-valued grade enum.
func gradeForRisk(risk string) string {
	switch risk {
	case "stable", "candidate":
		return defaultGrade
	}
	return "devel"
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

func clampRating(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 5:
		return 5
	}
	return r
}
