package billingcycle

import (
	"fmt"
	"time"
)

const (
	minClosingDay = 1
	maxClosingDay = 28
)

// ClosingPeriod is the billing window that ends on a card's closing date.
type ClosingPeriod struct {
	ClosingDate    time.Time // midnight of the closing day
	PeriodStart    time.Time // start of the day after the previous closing
	PeriodEnd      time.Time // end of the closing day, inclusive
	MonthReference string    // YYYY-MM of ClosingDate
}

// Contains reports whether t falls inside the inclusive period window.
func (p ClosingPeriod) Contains(t time.Time) bool {
	return !t.Before(p.PeriodStart) && !t.After(p.PeriodEnd)
}

// ResolveClosingPeriod finds the most recent closing on or before referenceDate
// and returns the window it closes. Windows of consecutive months are contiguous:
// one period's end plus one nanosecond is the next period's start.
func ResolveClosingPeriod(closingDay int, referenceDate time.Time) (ClosingPeriod, error) {
	if closingDay < minClosingDay || closingDay > maxClosingDay {
		return ClosingPeriod{}, fmt.Errorf("closing day must be between %d and %d, got %d", minClosingDay, maxClosingDay, closingDay)
	}

	ref := StartOfDay(referenceDate)
	candidate := DateOnDay(ref.Year(), ref.Month(), closingDay, ref.Location())

	closing := candidate
	if ref.Before(candidate) {
		closing = AddMonthsOnDay(candidate, -1, closingDay)
	}
	previous := AddMonthsOnDay(closing, -1, closingDay)

	return ClosingPeriod{
		ClosingDate:    closing,
		PeriodStart:    StartOfDay(previous.AddDate(0, 0, 1)),
		PeriodEnd:      EndOfDay(closing),
		MonthReference: closing.Format("2006-01"),
	}, nil
}

// InGenerationWindow reports whether referenceDate is the closing day itself or the
// day after it. The second day tolerates a scheduler run that slipped past midnight.
func InGenerationWindow(period ClosingPeriod, referenceDate time.Time) bool {
	return SameDay(referenceDate, period.ClosingDate) ||
		SameDay(referenceDate, period.ClosingDate.AddDate(0, 0, 1))
}

// DueDate places the payment due day in the month after closingDate,
// clamped to that month's last day when dueDay does not exist there.
func DueDate(closingDate time.Time, dueDay int) time.Time {
	return AddMonthsOnDay(closingDate, 1, dueDay)
}
