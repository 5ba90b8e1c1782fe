package drip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func tsp(value string) *time.Time {
	t := ts(value)
	return &t
}

func TestEffectiveReleaseAt(t *testing.T) {
	releaseAt := ts("2025-01-01T00:00:00Z")

	_, ok := EffectiveReleaseAt(StatusDraft, &releaseAt)
	assert.False(t, ok, "draft is never released")

	at, ok := EffectiveReleaseAt(StatusLive, &releaseAt)
	require.True(t, ok)
	assert.Equal(t, releaseAt, at)

	at, ok = EffectiveReleaseAt(StatusLive, nil)
	require.True(t, ok, "live without a date has been available since always")
	assert.True(t, at.IsZero())

	at, ok = EffectiveReleaseAt(StatusScheduled, &releaseAt)
	require.True(t, ok)
	assert.Equal(t, releaseAt, at)

	_, ok = EffectiveReleaseAt(StatusScheduled, nil)
	assert.False(t, ok)
}

func TestEffectiveStart(t *testing.T) {
	courseRelease := tsp("2025-01-01T00:00:00Z")

	start := EffectiveStart(tsp("2025-01-03T00:00:00Z"), courseRelease)
	require.NotNil(t, start)
	assert.Equal(t, ts("2025-01-03T00:00:00Z"), *start, "late enrollee starts at enrollment")

	start = EffectiveStart(tsp("2024-12-20T00:00:00Z"), courseRelease)
	require.NotNil(t, start)
	assert.Equal(t, ts("2025-01-01T00:00:00Z"), *start, "early enrollee waits for course release")

	assert.Nil(t, EffectiveStart(nil, courseRelease))
	assert.Nil(t, EffectiveStart(tsp("2025-01-03T00:00:00Z"), nil))
}

func TestEffectiveStartMonotonic(t *testing.T) {
	courseRelease := tsp("2025-01-01T00:00:00Z")
	enrollments := []string{
		"2024-11-01T00:00:00Z",
		"2024-12-31T23:59:59Z",
		"2025-01-01T00:00:00Z",
		"2025-01-15T12:00:00Z",
		"2025-06-01T00:00:00Z",
	}

	var prev *time.Time
	for _, e := range enrollments {
		start := EffectiveStart(tsp(e), courseRelease)
		require.NotNil(t, start)
		if prev != nil {
			assert.False(t, start.Before(*prev), "effective start must not decrease for later enrollments")
		}
		prev = start
	}
}

func TestEvaluateModuleCohortRule(t *testing.T) {
	// Course released 2025-01-01, member enrolls 2025-01-03, module unlocks
	// seven days into the member's cohort: 2025-01-10.
	start := EffectiveStart(tsp("2025-01-03T00:00:00Z"), tsp("2025-01-01T00:00:00Z"))
	timing := ModuleTiming{UnlockAfterDays: 7}

	access := EvaluateModule(ts("2025-01-09T23:59:00Z"), true, start, timing, false)
	assert.True(t, access.Locked)
	require.NotNil(t, access.UnlockAt)
	assert.Equal(t, ts("2025-01-10T00:00:00Z"), *access.UnlockAt)
	assert.Equal(t, ReasonDrip, access.Reason)

	access = EvaluateModule(ts("2025-01-10T00:01:00Z"), true, start, timing, false)
	assert.False(t, access.Locked)
}

func TestEvaluateModuleReleaseDateOverride(t *testing.T) {
	start := tsp("2025-01-01T00:00:00Z")
	timing := ModuleTiming{ReleaseAt: tsp("2025-02-01T00:00:00Z"), UnlockAfterDays: 7}

	access := EvaluateModule(ts("2025-01-20T00:00:00Z"), true, start, timing, false)
	assert.True(t, access.Locked, "module release date overrides the cohort rule")
	require.NotNil(t, access.UnlockAt)
	assert.Equal(t, ts("2025-02-01T00:00:00Z"), *access.UnlockAt)
	assert.Equal(t, ReasonReleaseDate, access.Reason)

	access = EvaluateModule(ts("2025-02-01T00:00:00Z"), true, start, timing, false)
	assert.False(t, access.Locked)
}

func TestEvaluateModuleManualPrecedence(t *testing.T) {
	start := tsp("2025-01-01T00:00:00Z")
	timing := ModuleTiming{UnlockAfterDays: 365}

	access := EvaluateModule(ts("2025-01-02T00:00:00Z"), true, start, timing, true)
	assert.False(t, access.Locked, "manual unlock wins over any computed future date")
	assert.Nil(t, access.UnlockAt)
	assert.Equal(t, ReasonManual, access.Reason)
}

func TestEvaluateModuleNotEnrolled(t *testing.T) {
	access := EvaluateModule(ts("2025-01-02T00:00:00Z"), false, nil, ModuleTiming{}, true)
	assert.True(t, access.Locked, "without an active enrollment everything is locked")
	assert.Nil(t, access.UnlockAt)
	assert.Equal(t, ReasonEnrollmentRequired, access.Reason)
}

func TestEvaluateModuleNoEffectiveStart(t *testing.T) {
	access := EvaluateModule(ts("2025-01-02T00:00:00Z"), true, nil, ModuleTiming{UnlockAfterDays: 7}, false)
	assert.True(t, access.Locked)
	assert.Nil(t, access.UnlockAt, "no effective start means locked indefinitely, no date to show")
}

func TestCompletionRatchet(t *testing.T) {
	start := tsp("2025-01-03T00:00:00Z")
	timing := ModuleTiming{UnlockAfterDays: 7}
	now := ts("2025-01-05T00:00:00Z")

	// Staff unlocked the module early, the member completed a lesson, then
	// the unlock was revoked. The module must stay open.
	access := EvaluateModule(now, true, start, timing, false)
	require.True(t, access.Locked)

	access = ApplyCompletionOverride(access, true)
	assert.False(t, access.Locked)
	assert.Equal(t, ReasonCompleted, access.Reason)

	// An already-open module keeps its own reason.
	open := EvaluateModule(ts("2025-01-20T00:00:00Z"), true, start, timing, false)
	require.False(t, open.Locked)
	unchanged := ApplyCompletionOverride(open, true)
	assert.Equal(t, open, unchanged)

	// No completions: the lock stands.
	still := ApplyCompletionOverride(EvaluateModule(now, true, start, timing, false), false)
	assert.True(t, still.Locked)
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, ts("2025-01-10T00:00:00Z"), AddDays(ts("2025-01-03T00:00:00Z"), 7))
	assert.Equal(t, ts("2025-03-03T12:00:00Z"), AddDays(ts("2025-02-28T12:00:00Z"), 3))
	assert.Equal(t, ts("2025-01-03T00:00:00Z"), AddDays(ts("2025-01-03T00:00:00Z"), 0))
}
