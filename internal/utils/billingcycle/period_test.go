package billingcycle_test

import (
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger/internal/utils/billingcycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveClosingPeriod(t *testing.T) {
	tests := []struct {
		name        string
		closingDay  int
		ref         time.Time
		wantClosing time.Time
		wantStart   time.Time
		wantMonth   string
	}{
		{
			name:        "reference on closing day",
			closingDay:  20,
			ref:         date(2025, time.July, 20),
			wantClosing: date(2025, time.July, 20),
			wantStart:   date(2025, time.June, 21),
			wantMonth:   "2025-07",
		},
		{
			name:        "reference after closing day",
			closingDay:  20,
			ref:         date(2025, time.July, 21),
			wantClosing: date(2025, time.July, 20),
			wantStart:   date(2025, time.June, 21),
			wantMonth:   "2025-07",
		},
		{
			name:        "reference before closing day falls back a month",
			closingDay:  20,
			ref:         date(2025, time.July, 19),
			wantClosing: date(2025, time.June, 20),
			wantStart:   date(2025, time.May, 21),
			wantMonth:   "2025-06",
		},
		{
			name:        "january reference before closing crosses the year",
			closingDay:  10,
			ref:         date(2025, time.January, 5),
			wantClosing: date(2024, time.December, 10),
			wantStart:   date(2024, time.November, 11),
			wantMonth:   "2024-12",
		},
		{
			name:        "closing day 28 in february of a leap year",
			closingDay:  28,
			ref:         date(2024, time.March, 1),
			wantClosing: date(2024, time.February, 28),
			wantStart:   date(2024, time.January, 29),
			wantMonth:   "2024-02",
		},
		{
			name:        "time of day is ignored",
			closingDay:  1,
			ref:         time.Date(2025, time.March, 1, 23, 59, 0, 0, time.UTC),
			wantClosing: date(2025, time.March, 1),
			wantStart:   date(2025, time.February, 2),
			wantMonth:   "2025-03",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := billingcycle.ResolveClosingPeriod(tt.closingDay, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClosing, p.ClosingDate)
			assert.Equal(t, tt.wantStart, p.PeriodStart)
			assert.Equal(t, billingcycle.EndOfDay(tt.wantClosing), p.PeriodEnd)
			assert.Equal(t, tt.wantMonth, p.MonthReference)
			assert.True(t, p.Contains(tt.wantClosing.Add(23*time.Hour)))
			assert.False(t, p.Contains(tt.wantClosing.AddDate(0, 0, 1)))
		})
	}
}

func TestResolveClosingPeriod_RejectsAmbiguousDays(t *testing.T) {
	for _, day := range []int{0, 29, 31, -1} {
		_, err := billingcycle.ResolveClosingPeriod(day, date(2025, time.July, 1))
		assert.Error(t, err, "closing day %d", day)
	}
}

func TestResolveClosingPeriod_ContiguousWindows(t *testing.T) {
	for closingDay := 1; closingDay <= 28; closingDay++ {
		prev, err := billingcycle.ResolveClosingPeriod(closingDay, date(2023, time.December, 31))
		require.NoError(t, err)

		for ref := date(2024, time.January, 1); ref.Before(date(2026, time.January, 1)); ref = ref.AddDate(0, 0, 1) {
			cur, err := billingcycle.ResolveClosingPeriod(closingDay, ref)
			require.NoError(t, err)
			require.True(t, cur.Contains(ref) || ref.After(cur.PeriodEnd), "reference %s must be at or after its period start", ref)

			if cur.MonthReference == prev.MonthReference {
				require.Equal(t, prev, cur)
				continue
			}
			require.Equal(t, prev.PeriodEnd.Add(time.Nanosecond), cur.PeriodStart,
				"closing day %d: gap or overlap between %s and %s", closingDay, prev.MonthReference, cur.MonthReference)
			require.True(t, billingcycle.SameDay(prev.ClosingDate.AddDate(0, 0, 1), cur.PeriodStart))
			prev = cur
		}
	}
}

func TestInGenerationWindow(t *testing.T) {
	p, err := billingcycle.ResolveClosingPeriod(15, date(2025, time.May, 15))
	require.NoError(t, err)

	assert.True(t, billingcycle.InGenerationWindow(p, date(2025, time.May, 15)))
	assert.True(t, billingcycle.InGenerationWindow(p, date(2025, time.May, 16)))
	assert.False(t, billingcycle.InGenerationWindow(p, date(2025, time.May, 17)))
	assert.False(t, billingcycle.InGenerationWindow(p, date(2025, time.May, 14)))
}

func TestDueDate(t *testing.T) {
	tests := []struct {
		name    string
		closing time.Time
		dueDay  int
		want    time.Time
	}{
		{"regular", date(2025, time.July, 20), 10, date(2025, time.August, 10)},
		{"due day exists", date(2025, time.July, 20), 31, date(2025, time.August, 31)},
		{"clamped to short month", date(2025, time.January, 20), 31, date(2025, time.February, 28)},
		{"clamped to leap february", date(2024, time.January, 20), 30, date(2024, time.February, 29)},
		{"year rollover", date(2024, time.December, 5), 15, date(2025, time.January, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, billingcycle.DueDate(tt.closing, tt.dueDay))
		})
	}
}

func TestAddMonthsClamped(t *testing.T) {
	assert.Equal(t, date(2024, time.February, 29), billingcycle.AddMonthsClamped(date(2024, time.January, 31), 1))
	assert.Equal(t, date(2023, time.February, 28), billingcycle.AddMonthsClamped(date(2023, time.January, 31), 1))
	assert.Equal(t, date(2024, time.November, 30), billingcycle.AddMonthsClamped(date(2024, time.December, 31), -1))
	assert.Equal(t, date(2025, time.February, 28), billingcycle.AddMonthsClamped(date(2024, time.February, 29), 12))
}
