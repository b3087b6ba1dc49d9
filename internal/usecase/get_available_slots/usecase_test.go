package get_available_slots

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	typeRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/appointmenttype"
	calendarClient "github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/calendarservice"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/availability"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/cache"
)

type mockTypeRepo struct {
	apptType *domain.AppointmentType
	err      error
}

func (m *mockTypeRepo) GetByID(_ context.Context, _, _ int64) (*domain.AppointmentType, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.apptType, nil
}

type mockAvailabilityService struct {
	settings *domain.AvailabilitySettings
	slots    []domain.Interval
	err      error
	calls    int
	gotOpts  availability.BusyOptions
	gotDate  time.Time
}

func (m *mockAvailabilityService) Settings(_ context.Context, _ int64) (*domain.AvailabilitySettings, error) {
	return m.settings, nil
}

func (m *mockAvailabilityService) GenerateSlots(_ context.Context, _ *domain.AvailabilitySettings, _ *domain.AppointmentType, date time.Time, opts availability.BusyOptions) ([]domain.Interval, error) {
	m.calls++
	m.gotOpts = opts
	m.gotDate = date
	if m.err != nil {
		return nil, m.err
	}
	return m.slots, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestUseCase(t *testing.T) (*UseCase, *mockAvailabilityService, *cache.InMemory) {
	t.Helper()

	avail := &mockAvailabilityService{
		settings: &domain.AvailabilitySettings{
			AccountID: 1,
			Timezone:  "Europe/Moscow",
			DaysAhead: 14,
		},
		slots: []domain.Interval{{
			Start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		}},
	}
	c := cache.NewInMemory(cache.NopRecorder{})

	uc := NewUseCase(
		&mockTypeRepo{apptType: &domain.AppointmentType{ID: 10, AccountID: 1, DurationMinutes: 60, IsActive: true}},
		avail,
		c,
		domain.DerivedCacheTTL,
		nopLogger{},
	)
	return uc, avail, c
}

func validRequest() *Request {
	return &Request{
		AccountID:         1,
		AppointmentTypeID: 10,
		Date:              time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestExecuteComputesAndCaches(t *testing.T) {
	uc, avail, _ := newTestUseCase(t)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, resp.Cached)
	assert.Equal(t, "2026-03-02", resp.Date)
	assert.Equal(t, "Europe/Moscow", resp.Timezone)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), resp.Slots[0].StartTime)

	// Read-путь разрешает деградацию, но не обходит кэш занятости
	assert.True(t, avail.gotOpts.AllowDegraded)
	assert.False(t, avail.gotOpts.BypassCache)

	// Повторный запрос берет производный результат из кэша
	resp, err = uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, 1, avail.calls)
}

func TestExecuteCacheInvalidation(t *testing.T) {
	uc, avail, c := newTestUseCase(t)

	_, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	// После инвалидации аккаунта слоты пересчитываются
	c.InvalidateAccount(1)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, 2, avail.calls)
}

func TestExecuteDateAnchoredToAccountZone(t *testing.T) {
	// Параметр даты приходит как полночь UTC. Календарный день должен
	// сохраниться после якорения в таймзоне аккаунта независимо от знака
	// ее смещения относительно UTC.
	tests := []struct {
		name     string
		timezone string
	}{
		{"positive offset", "Europe/Moscow"},
		{"negative offset", "America/New_York"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, avail, _ := newTestUseCase(t)
			avail.settings.Timezone = tt.timezone

			loc, err := time.LoadLocation(tt.timezone)
			require.NoError(t, err)

			resp, err := uc.Execute(context.Background(), validRequest())
			require.NoError(t, err)

			assert.Equal(t, "2026-03-02", resp.Date)
			// Сервис доступности получает полночь запрошенного дня в зоне аккаунта
			assert.True(t, avail.gotDate.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, loc)),
				"got %v", avail.gotDate)
		})
	}
}

func TestExecuteTypeErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		uc.typeRepo = &mockTypeRepo{err: typeRepo.ErrTypeNotFound}

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrTypeNotFound)
	})

	t.Run("inactive", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		uc.typeRepo = &mockTypeRepo{apptType: &domain.AppointmentType{ID: 10, IsActive: false}}

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrTypeInactive)
	})
}

func TestExecuteCalendarUnavailable(t *testing.T) {
	uc, avail, c := newTestUseCase(t)
	avail.err = fmt.Errorf("busy: %w", calendarClient.ErrCalendarUnavailable)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCalendarUnavailable)

	// Ошибка не кэшируется
	assert.Equal(t, 0, c.Len())
}

func TestExecuteValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"non-positive account id", func(req *Request) { req.AccountID = 0 }},
		{"non-positive type id", func(req *Request) { req.AppointmentTypeID = -5 }},
		{"zero date", func(req *Request) { req.Date = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _ := newTestUseCase(t)
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
