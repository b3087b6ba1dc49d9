package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	appointmentRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/appointment"
	scheduleRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/schedule"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/appointments/models"
)

type mockAppointmentRepo struct {
	byID      map[int64]*domain.Appointment
	listed    []*domain.Appointment
	gotFilter domain.AppointmentsFilter
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	apt, ok := m.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return apt, nil
}

func (m *mockAppointmentRepo) GetByManageToken(_ context.Context, token uuid.UUID) (*domain.Appointment, error) {
	for _, apt := range m.byID {
		if apt.ManageToken == token {
			return apt, nil
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (m *mockAppointmentRepo) ListWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	m.gotFilter = filter
	return m.listed, nil
}

type mockScheduleRepo struct {
	settings *domain.AvailabilitySettings
	err      error
}

func (m *mockScheduleRepo) GetSettings(_ context.Context, _ int64) (*domain.AvailabilitySettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.settings, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(t *testing.T) (*Service, *mockAppointmentRepo) {
	t.Helper()

	token := uuid.MustParse("7b0d31de-90a2-4a63-9d2c-17a6f0b8e81a")
	repo := &mockAppointmentRepo{
		byID: map[int64]*domain.Appointment{
			100: {
				ID:           100,
				AccountID:    1,
				StartTime:    time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
				EndTime:      time.Date(2026, 3, 3, 11, 0, 0, 0, time.UTC),
				Status:       domain.StatusConfirmed,
				ManageToken:  token,
				VisitorName:  "Ivan Petrov",
				VisitorEmail: "ivan@example.com",
			},
		},
	}
	schedule := &mockScheduleRepo{
		settings: &domain.AvailabilitySettings{AccountID: 1, Timezone: "Europe/Moscow"},
	}
	return NewService(repo, schedule, nopLogger{}), repo
}

func TestGetByID(t *testing.T) {
	t.Run("owner can read", func(t *testing.T) {
		svc, _ := newTestService(t)

		resp, err := svc.GetByID(context.Background(), 100, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), resp.ID)
		assert.Equal(t, "confirmed", resp.Status)
	})

	t.Run("foreign account is denied", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.GetByID(context.Background(), 100, 2)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing appointment", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.GetByID(context.Background(), 404, 1)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestGetByManageToken(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.GetByManageToken(context.Background(), uuid.MustParse("7b0d31de-90a2-4a63-9d2c-17a6f0b8e81a"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)

	_, err = svc.GetByManageToken(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListByAccount(t *testing.T) {
	t.Run("filter is passed through", func(t *testing.T) {
		svc, repo := newTestService(t)
		repo.listed = []*domain.Appointment{repo.byID[100]}

		status := "completed"
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

		resp, err := svc.ListByAccount(context.Background(), &models.ListAppointmentsRequest{
			AccountID:        1,
			StartDate:        &start,
			EndDate:          &end,
			Status:           &status,
			IncludeCancelled: true,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 1)

		assert.Equal(t, int64(1), repo.gotFilter.AccountID)
		require.NotNil(t, repo.gotFilter.Status)
		assert.Equal(t, domain.StatusCompleted, *repo.gotFilter.Status)
		assert.True(t, repo.gotFilter.IncludeCancelled)
	})

	t.Run("period is anchored to the account timezone", func(t *testing.T) {
		svc, repo := newTestService(t)
		svc.scheduleRepo = &mockScheduleRepo{
			settings: &domain.AvailabilitySettings{AccountID: 1, Timezone: "America/New_York"},
		}

		ny, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		// Даты приходят распарсенными как полночь UTC; границы фильтра
		// должны стать полуночью тех же календарных дней в зоне аккаунта
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

		_, err = svc.ListByAccount(context.Background(), &models.ListAppointmentsRequest{
			AccountID: 1,
			StartDate: &start,
			EndDate:   &end,
		})
		require.NoError(t, err)

		require.NotNil(t, repo.gotFilter.StartDate)
		require.NotNil(t, repo.gotFilter.EndDate)
		assert.True(t, repo.gotFilter.StartDate.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, ny)),
			"got %v", repo.gotFilter.StartDate)
		assert.True(t, repo.gotFilter.EndDate.Equal(time.Date(2026, 3, 31, 0, 0, 0, 0, ny)),
			"got %v", repo.gotFilter.EndDate)
	})

	t.Run("missing settings fall back to the default timezone", func(t *testing.T) {
		svc, repo := newTestService(t)
		svc.scheduleRepo = &mockScheduleRepo{err: scheduleRepo.ErrSettingsNotFound}

		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		_, err := svc.ListByAccount(context.Background(), &models.ListAppointmentsRequest{
			AccountID: 1,
			StartDate: &start,
		})
		require.NoError(t, err)

		require.NotNil(t, repo.gotFilter.StartDate)
		assert.True(t, repo.gotFilter.StartDate.Equal(start))
	})

	t.Run("end date before start date", func(t *testing.T) {
		svc, _ := newTestService(t)

		start := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

		_, err := svc.ListByAccount(context.Background(), &models.ListAppointmentsRequest{
			AccountID: 1,
			StartDate: &start,
			EndDate:   &end,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _ := newTestService(t)

		status := "postponed"
		_, err := svc.ListByAccount(context.Background(), &models.ListAppointmentsRequest{
			AccountID: 1,
			Status:    &status,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty result", func(t *testing.T) {
		svc, _ := newTestService(t)

		resp, err := svc.ListByAccount(context.Background(), &models.ListAppointmentsRequest{AccountID: 1})
		require.NoError(t, err)
		assert.Empty(t, resp.Appointments)
	})
}
