// Package seed generates clearly-labeled demo records so a dashboard
// has data to show without a live collector run.
package seed

import (
	"math/rand/v2"

	"github.com/snappulse/snappulse/internal/domain/model"
)

// DefaultSnaps is the demo snap list.
var DefaultSnaps = []string{
	"firefox", "discord", "code", "spotify", "slack", "gimp",
	"vlc", "telegram-desktop", "skype", "zoom-client",
}

// Per-channel shares of the stable download volume.
var channelProfile = []struct {
	channel model.Channel
	share   float64
	version string
	grade   string
}{
	{model.ChannelStable, 1.0, "1.0.0", "stable"},
	{model.ChannelCandidate, 0.1, "1.1.0", "stable"},
	{model.ChannelBeta, 0.05, "1.2.0", "devel"},
	{model.ChannelEdge, 0.01, "1.3.0-dev", "devel"},
}

const (
	minBaseDownloads = 50_000
	maxBaseDownloads = 500_000
	minRating        = 3.5
	maxRating        = 4.8
)

// Generate produces one record per channel for snap, with randomized
// but plausible volumes. The publisher field marks the data as seeded.
func Generate(snap string) []model.SnapMetricRecord {
	base := int64(minBaseDownloads + rand.IntN(maxBaseDownloads-minBaseDownloads))

	records := make([]model.SnapMetricRecord, 0, len(channelProfile))
	for _, p := range channelProfile {
		total := int64(float64(base) * p.share)
		records = append(records, model.SnapMetricRecord{
			SnapName:           snap,
			Channel:            p.channel,
			DownloadTotal:      total,
			DownloadLast30Days: total / 6,
			Rating:             round1(minRating + rand.Float64()*(maxRating-minRating)),
			Version:            p.version,
			Confinement:        "strict",
			Grade:              p.grade,
			Publisher:          "Demo Publisher (seeded)",
		})
	}
	return records
}

func round1(x float64) float64 {
	return float64(int(x*10+0.5)) / 10
}
