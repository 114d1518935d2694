// Package economy implements the pure calculation core of the engine:
// cooldown gating, reward math and dynamic pricing. Everything here is
// deterministic given its inputs; callers supply the clock.
package economy

import "time"

// CanPerform reports whether a cooldown-gated action may run at now.
// A nil last timestamp means the action has never been performed.
// Callers persist the new timestamp only after the gated action succeeds.
func CanPerform(last *time.Time, cooldown time.Duration, now time.Time) bool {
	if last == nil {
		return true
	}
	return now.Sub(*last) >= cooldown
}

// Remaining returns the time left until the action may run again,
// or zero if it may run now.
func Remaining(last *time.Time, cooldown time.Duration, now time.Time) time.Duration {
	if last == nil {
		return 0
	}
	left := cooldown - now.Sub(*last)
	if left < 0 {
		return 0
	}
	return left
}

// RemainingMinutes returns Remaining rounded up to whole minutes, for
// user-facing cooldown messages.
func RemainingMinutes(last *time.Time, cooldown time.Duration, now time.Time) int {
	left := Remaining(last, cooldown, now)
	if left == 0 {
		return 0
	}
	mins := int(left / time.Minute)
	if left%time.Minute != 0 {
		mins++
	}
	return mins
}
