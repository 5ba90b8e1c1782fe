package drip

import "time"

// Unlock reasons reported alongside the lock verdict.
const (
	ReasonEnrollmentRequired = "enrollment_required"
	ReasonManual             = "manual"
	ReasonReleaseDate        = "release_date"
	ReasonDrip               = "drip"
	ReasonCompleted          = "completed"
)

// ModuleTiming is the subset of a module's configuration the evaluator needs.
type ModuleTiming struct {
	ReleaseAt       *time.Time // module-level override of the cohort rule
	UnlockAfterDays int
}

// Access is the verdict for one (member, module) pair. UnlockAt is set only
// when the module is locked by a known future instant.
type Access struct {
	Locked   bool
	UnlockAt *time.Time
	Reason   string
}

// EvaluateModule decides the lock state of one module for one member,
// first match wins:
//
//  1. no active enrollment: locked, no unlock date (manual unlocks take
//     effect once the member enrolls)
//  2. manual unlock: unlocked, no display date
//  3. module-level release date: locked until it passes, then unlocked
//  4. cohort rule: effectiveStart + UnlockAfterDays calendar days; with no
//     effective start the module is locked indefinitely
//
// There is no way to force-lock a module the rules leave open. Callers must
// pass the same now for every module evaluated within one request so a
// response never shows inconsistent lock states.
func EvaluateModule(now time.Time, enrolled bool, effectiveStart *time.Time, timing ModuleTiming, manuallyUnlocked bool) Access {
	if !enrolled {
		return Access{Locked: true, Reason: ReasonEnrollmentRequired}
	}
	if manuallyUnlocked {
		return Access{Locked: false, Reason: ReasonManual}
	}
	if timing.ReleaseAt != nil {
		if now.Before(*timing.ReleaseAt) {
			at := *timing.ReleaseAt
			return Access{Locked: true, UnlockAt: &at, Reason: ReasonReleaseDate}
		}
		return Access{Locked: false, Reason: ReasonReleaseDate}
	}
	if effectiveStart == nil {
		return Access{Locked: true, Reason: ReasonDrip}
	}
	unlockAt := AddDays(*effectiveStart, timing.UnlockAfterDays)
	if now.Before(unlockAt) {
		return Access{Locked: true, UnlockAt: &unlockAt, Reason: ReasonDrip}
	}
	return Access{Locked: false, Reason: ReasonDrip}
}

// ApplyCompletionOverride forces a locked module open once the member has
// completed any lesson inside it. Access a member has already exercised is
// never revoked, even if a manual unlock was deleted or the computed unlock
// date is still in the future.
func ApplyCompletionOverride(a Access, anyLessonComplete bool) Access {
	if a.Locked && anyLessonComplete {
		return Access{Locked: false, Reason: ReasonCompleted}
	}
	return a
}
