// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/gookit/validate"
)

// Channel identifies a snap release channel.
type Channel string

// The fixed channel set tracked by the store.
const (
	ChannelStable    Channel = "stable"
	ChannelCandidate Channel = "candidate"
	ChannelBeta      Channel = "beta"
	ChannelEdge      Channel = "edge"
)

// Channels returns all known channels in risk order, stable first.
func Channels() []Channel {
	return []Channel{ChannelStable, ChannelCandidate, ChannelBeta, ChannelEdge}
}

// ParseChannel validates a channel string against the known set.
func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	switch c {
	case ChannelStable, ChannelCandidate, ChannelBeta, ChannelEdge:
		return c, nil
	}
	return "", fmt.Errorf("%w: channel: %q is not one of stable, candidate, beta, edge", ErrValidation, s)
}

// SnapMetricRecord is one row per (snap name, channel).
// TrendingScore and LastUpdated are derived on ingest and never trusted
// from the caller.
type SnapMetricRecord struct {
	SnapName           string  `json:"snap_name" koanf:"snap_name" validate:"required"`
	Channel            Channel `json:"channel" validate:"required|in:stable,candidate,beta,edge"`
	DownloadTotal      int64   `json:"download_total" validate:"min:0"`
	DownloadLast30Days int64   `json:"download_last_30_days" validate:"min:0"`
	Rating             float64 `json:"rating" validate:"min:0|max:5"`
	Version            string  `json:"version"`
	Confinement        string  `json:"confinement" validate:"in:strict,classic,devmode"`
	Grade              string  `json:"grade" validate:"in:stable,devel"`
	Publisher          string  `json:"publisher"`

	// Derived fields, stamped by the store on ingest.
	TrendingScore float64   `json:"trending_score"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Key returns the composite store key for the record.
func (r SnapMetricRecord) Key() string {
	return r.SnapName + "/" + string(r.Channel)
}

// Validate checks type and range constraints only; business rules do not
// belong here. The returned error wraps ErrValidation and names the first
// invalid field so HTTP callers get field-level detail.
func (r SnapMetricRecord) Validate() error {
	v := validate.Struct(r)
	if v.Validate() {
		return nil
	}

	// Errors is a map of field -> validator -> message; pick the first
	// field deterministically so responses are stable.
	fields := make([]string, 0, len(v.Errors))
	for field := range v.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	field := fields[0]
	return fmt.Errorf("%w: %s: %s", ErrValidation, jsonFieldName(field), v.Errors.FieldOne(field))
}

// jsonFieldName maps a struct field name to its wire name so validation
// detail matches what the caller actually sent.
func jsonFieldName(field string) string {
	t := reflect.TypeOf(SnapMetricRecord{})
	sf, ok := t.FieldByName(field)
	if !ok {
		return field
	}
	tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if tag == "" {
		return field
	}
	return tag
}
