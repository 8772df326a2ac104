package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/finance_ledger/internal/core/ports/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseScheduleTime(t *testing.T) {
	tests := []struct {
		in      string
		want    ScheduleTime
		wantErr bool
	}{
		{in: "00:05", want: ScheduleTime{Hour: 0, Minute: 5}},
		{in: "23:59", want: ScheduleTime{Hour: 23, Minute: 59}},
		{in: "24:00", wantErr: true},
		{in: "08:60", wantErr: true},
		{in: "eight", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScheduleTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestTick_RunsOncePerDayAtOrAfterTime(t *testing.T) {
	var days []time.Time
	job := Job{Name: "bill", At: ScheduleTime{Hour: 0, Minute: 10}, Run: func(_ context.Context, today time.Time) error {
		days = append(days, today)
		return nil
	}}
	s := New(quietLogger(), time.Second, job)

	assert.Empty(t, s.Tick(time.Date(2025, 7, 1, 0, 9, 0, 0, time.UTC)))
	assert.Equal(t, []string{"bill"}, s.Tick(time.Date(2025, 7, 1, 0, 10, 0, 0, time.UTC)))
	assert.Empty(t, s.Tick(time.Date(2025, 7, 1, 0, 11, 0, 0, time.UTC)))
	// Started late on the next day: still runs once.
	assert.Equal(t, []string{"bill"}, s.Tick(time.Date(2025, 7, 2, 15, 0, 0, 0, time.UTC)))

	assert.Equal(t, []time.Time{
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
	}, days)
}

func TestTick_FailedJobDoesNotBlockOthers(t *testing.T) {
	ran := false
	s := New(quietLogger(), time.Second,
		Job{Name: "broken", At: ScheduleTime{Hour: 8}, Run: func(context.Context, time.Time) error { return errors.New("boom") }},
		Job{Name: "ok", At: ScheduleTime{Hour: 8}, Run: func(context.Context, time.Time) error { ran = true; return nil }},
	)

	assert.Equal(t, []string{"broken", "ok"}, s.Tick(time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)))
	assert.True(t, ran)
}

type stubInvoices struct {
	portssvc.InvoiceSvcFacade
	gotDate  time.Time
	gotForce bool
}

func (s *stubInvoices) GenerateInvoices(_ context.Context, referenceDate time.Time, force bool) (*domain.GenerationReport, error) {
	s.gotDate, s.gotForce = referenceDate, force
	return &domain.GenerationReport{}, nil
}

func TestBillingJobs(t *testing.T) {
	invoices := &stubInvoices{}
	jobs, err := BillingJobs(&portssvc.ServiceContainer{Invoice: invoices}, Times{
		GenerateInvoices:  "00:05",
		BillSubscriptions: "00:10",
		NotifyInvoices:    "08:00",
		NotifySubs:        "09:00",
	})
	require.NoError(t, err)
	require.Len(t, jobs, 4)
	assert.Equal(t, "generate_invoices", jobs[0].Name)
	assert.Equal(t, ScheduleTime{Hour: 9}, jobs[3].At)

	s := New(quietLogger(), time.Second, jobs[0])
	s.Tick(time.Date(2025, 7, 10, 0, 5, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), invoices.gotDate)
	assert.False(t, invoices.gotForce)
}

func TestBillingJobs_BadTime(t *testing.T) {
	_, err := BillingJobs(&portssvc.ServiceContainer{}, Times{GenerateInvoices: "25:00"})

	assert.Error(t, err)
}
