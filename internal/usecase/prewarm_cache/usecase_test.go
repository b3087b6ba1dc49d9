package prewarm_cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/availability"
)

type mockAvailabilityService struct {
	mu       sync.Mutex
	settings *domain.AvailabilitySettings
	dates    []string
	done     chan struct{}
	want     int
}

func (m *mockAvailabilityService) Settings(_ context.Context, _ int64) (*domain.AvailabilitySettings, error) {
	return m.settings, nil
}

func (m *mockAvailabilityService) CalendarBusy(_ context.Context, _ *domain.AvailabilitySettings, date time.Time, _ availability.BusyOptions) ([]domain.Interval, error) {
	m.mu.Lock()
	m.dates = append(m.dates, date.Format(domain.DateFormat))
	if len(m.dates) == m.want {
		close(m.done)
	}
	m.mu.Unlock()
	return []domain.Interval{}, nil
}

func (m *mockAvailabilityService) warmedDates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.dates))
	copy(out, m.dates)
	return out
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestExecuteWarmsHorizon(t *testing.T) {
	avail := &mockAvailabilityService{
		settings: &domain.AvailabilitySettings{
			AccountID:           1,
			Timezone:            "UTC",
			DaysAhead:           14,
			CalendarSyncEnabled: true,
		},
		done: make(chan struct{}),
		want: 3,
	}

	uc := NewUseCase(avail, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}

	err := uc.Execute(context.Background(), &Request{AccountID: 1, DaysAhead: 3})
	require.NoError(t, err)

	select {
	case <-avail.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for prewarm to finish")
	}

	assert.Equal(t, []string{"2026-03-02", "2026-03-03", "2026-03-04"}, avail.warmedDates())
}

func TestExecuteValidation(t *testing.T) {
	uc := NewUseCase(&mockAvailabilityService{}, nopLogger{})

	assert.ErrorIs(t, uc.Execute(context.Background(), &Request{AccountID: 0}), ErrInvalidInput)
	assert.ErrorIs(t, uc.Execute(context.Background(), &Request{AccountID: 1, DaysAhead: -1}), ErrInvalidInput)
	assert.ErrorIs(t, uc.Execute(context.Background(), &Request{AccountID: 1, DaysAhead: domain.MaxDaysAhead + 1}), ErrInvalidInput)
}
