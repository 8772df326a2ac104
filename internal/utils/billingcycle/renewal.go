package billingcycle

import (
	"fmt"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

// maxRenewalSteps bounds the catch-up loop; a thousand years of yearly renewals is
// far beyond any real gap between runs.
const maxRenewalSteps = 12 * 1000

// NextBillingDate advances a subscription's billing date to the first occurrence
// strictly after referenceDate, in whole intervals counted from current.
// When current sits on anchorDay (normally the start date's day of month, clamped
// in short months) occurrences land on the anchor, so clamping does not drift the
// schedule: an anchor of 31 yields Jan 31, Feb 29, Mar 31. A current date off that
// grid, such as a resume date, keeps its own day so no interval is shortened.
// A date already after referenceDate is returned unchanged; it is never rewound.
func NextBillingDate(current time.Time, anchorDay int, frequency domain.Frequency, referenceDate time.Time) (time.Time, error) {
	var months int
	switch frequency {
	case domain.Monthly:
		months = 1
	case domain.Yearly:
		months = 12
	default:
		return time.Time{}, fmt.Errorf("unknown subscription frequency %q", frequency)
	}

	current = StartOfDay(current)
	ref := StartOfDay(referenceDate)
	if current.After(ref) {
		return current, nil
	}
	if !onAnchor(current, anchorDay) {
		anchorDay = current.Day()
	}

	for step := 1; step <= maxRenewalSteps; step++ {
		next := AddMonthsOnDay(current, step*months, anchorDay)
		if next.After(ref) {
			return next, nil
		}
	}
	return time.Time{}, fmt.Errorf("billing date %s is too far behind %s", current.Format(time.DateOnly), ref.Format(time.DateOnly))
}

// onAnchor reports whether t falls on anchorDay, clamped to t's month length.
func onAnchor(t time.Time, anchorDay int) bool {
	if anchorDay < 1 || anchorDay > 31 {
		return false
	}
	return t.Day() == min(anchorDay, DaysIn(t.Year(), t.Month(), t.Location()))
}
