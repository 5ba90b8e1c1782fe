package drip

import "time"

// EffectiveStart computes the member-specific day zero from which relative
// unlock windows are measured: the later of the member's enrollment instant
// and the course's release instant. Enrolling before the course goes live
// does not grant earlier unlocks; enrolling after starts the clock at the
// member's own enrollment. If either instant is missing there is no effective
// start and time-relative modules stay locked pending data.
func EffectiveStart(enrolledAt, courseReleaseAt *time.Time) *time.Time {
	if enrolledAt == nil || courseReleaseAt == nil {
		return nil
	}
	start := *enrolledAt
	if courseReleaseAt.After(start) {
		start = *courseReleaseAt
	}
	return &start
}
