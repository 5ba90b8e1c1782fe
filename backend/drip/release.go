// Package drip decides which course modules a member can access and when the
// rest unlock. It is pure computation over instants and ordering data; the
// controllers feed it rows and a single captured "now" per request.
package drip

import "time"

const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusLive      = "live"
)

// EffectiveReleaseAt resolves the instant from which a content item counts as
// released. Draft content is never released. Live content without an explicit
// release date has been available since it went live (publishing stamps
// ReleaseAt, so a nil here means "available since always" and resolves to the
// zero time). Scheduled content without a date is invalid at write time and
// resolves to not released.
func EffectiveReleaseAt(status string, releaseAt *time.Time) (time.Time, bool) {
	switch status {
	case StatusLive:
		if releaseAt != nil {
			return *releaseAt, true
		}
		return time.Time{}, true
	case StatusScheduled:
		if releaseAt == nil {
			return time.Time{}, false
		}
		return *releaseAt, true
	default:
		return time.Time{}, false
	}
}

// AddDays advances t by n calendar days, normalized to UTC so the arithmetic
// is DST-free. Whether day boundaries should instead follow the member's or
// tenant's timezone is an open product question.
func AddDays(t time.Time, n int) time.Time {
	return t.UTC().AddDate(0, 0, n)
}
