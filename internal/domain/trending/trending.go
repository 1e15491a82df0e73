// Package trending computes the derived trending score from ingested
// rating and recent-download figures.
package trending

import "math"

// Default derivation constants. The score is rating-dominated with a
// capped bonus for recent download volume.
const (
	defaultRatingWeight     = 10.0
	defaultDownloadsDivisor = 1000.0
	defaultDownloadsCap     = 50.0
)

// Scorer derives trending scores. The zero configuration matches the
// service contract; options exist so tests can pin different curves.
type Scorer struct {
	ratingWeight     float64
	downloadsDivisor float64
	downloadsCap     float64
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithDownloadsDivisor sets the divisor applied to the 30-day download count.
func WithDownloadsDivisor(d float64) Option {
	return func(s *Scorer) {
		if d > 0 {
			s.downloadsDivisor = d
		}
	}
}

// WithDownloadsCap sets the maximum contribution of downloads to the score.
func WithDownloadsCap(c float64) Option {
	return func(s *Scorer) {
		if c > 0 {
			s.downloadsCap = c
		}
	}
}

// NewScorer constructs a Scorer with the contract defaults.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		ratingWeight:     defaultRatingWeight,
		downloadsDivisor: defaultDownloadsDivisor,
		downloadsCap:     defaultDownloadsCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score derives the trending score from a rating and a 30-day download
// count, rounded to one decimal place.
func (s *Scorer) Score(rating float64, downloadLast30Days int64) float64 {
	bonus := math.Min(float64(downloadLast30Days)/s.downloadsDivisor, s.downloadsCap)
	return round1(rating*s.ratingWeight + bonus)
}

// Score derives the trending score with the default configuration.
func Score(rating float64, downloadLast30Days int64) float64 {
	return NewScorer().Score(rating, downloadLast30Days)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
