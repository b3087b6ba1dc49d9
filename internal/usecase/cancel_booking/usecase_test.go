package cancel_booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	appointmentRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/appointment"
	scheduleRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/schedule"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/notifyservice"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/ptr"
)

type mockAppointmentRepo struct {
	byID      map[int64]*domain.Appointment
	cancelErr error
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	apt, ok := m.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	found := *apt
	return &found, nil
}

func (m *mockAppointmentRepo) GetByManageToken(_ context.Context, token uuid.UUID) (*domain.Appointment, error) {
	for _, apt := range m.byID {
		if apt.ManageToken == token {
			found := *apt
			return &found, nil
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (m *mockAppointmentRepo) Cancel(_ context.Context, id int64, reason string) error {
	if m.cancelErr != nil {
		return m.cancelErr
	}
	apt, ok := m.byID[id]
	if !ok || apt.Status != domain.StatusConfirmed {
		return appointmentRepo.ErrAppointmentNotFound
	}
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	apt.Status = domain.StatusCancelled
	apt.CancelledAt = &now
	if reason != "" {
		apt.CancellationReason = &reason
	}
	return nil
}

type mockTypeRepo struct {
	apptType *domain.AppointmentType
}

func (m *mockTypeRepo) GetByID(_ context.Context, _, _ int64) (*domain.AppointmentType, error) {
	return m.apptType, nil
}

type mockScheduleRepo struct{}

func (m *mockScheduleRepo) GetSettings(_ context.Context, accountID int64) (*domain.AvailabilitySettings, error) {
	return nil, scheduleRepo.ErrSettingsNotFound
}

type mockCalendarClient struct {
	deleted chan string
}

func (m *mockCalendarClient) DeleteEvent(_ context.Context, _ int64, eventID string) error {
	if m.deleted != nil {
		m.deleted <- eventID
	}
	return nil
}

type mockNotifyClient struct {
	sent chan *notifyservice.BookingEmail
}

func (m *mockNotifyClient) SendBookingCancellation(_ context.Context, email *notifyservice.BookingEmail) error {
	if m.sent != nil {
		m.sent <- email
	}
	return nil
}

type mockCacheInvalidator struct {
	invalidated []int64
}

func (m *mockCacheInvalidator) InvalidateAccount(accountID int64) {
	m.invalidated = append(m.invalidated, accountID)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type testEnv struct {
	uc       *UseCase
	appts    *mockAppointmentRepo
	calendar *mockCalendarClient
	notify   *mockNotifyClient
	cache    *mockCacheInvalidator
	token    uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	token := uuid.MustParse("7b0d31de-90a2-4a63-9d2c-17a6f0b8e81a")
	env := &testEnv{
		appts: &mockAppointmentRepo{
			byID: map[int64]*domain.Appointment{
				100: {
					ID:                100,
					AccountID:         1,
					AppointmentTypeID: 10,
					StartTime:         time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
					EndTime:           time.Date(2026, 3, 3, 11, 0, 0, 0, time.UTC),
					Status:            domain.StatusConfirmed,
					ManageToken:       token,
					VisitorName:       "Ivan Petrov",
					VisitorEmail:      "ivan@example.com",
				},
			},
		},
		calendar: &mockCalendarClient{},
		notify:   &mockNotifyClient{},
		cache:    &mockCacheInvalidator{},
		token:    token,
	}

	env.uc = NewUseCase(
		env.appts,
		&mockTypeRepo{apptType: &domain.AppointmentType{ID: 10, Name: "Consultation"}},
		&mockScheduleRepo{},
		env.calendar,
		env.notify,
		env.cache,
		nopLogger{},
	)
	return env
}

func waitFor[T any](t *testing.T, ch chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

func TestExecuteAccountPath(t *testing.T) {
	env := newTestEnv(t)
	env.notify.sent = make(chan *notifyservice.BookingEmail, 1)

	resp, err := env.uc.Execute(context.Background(), &Request{
		AppointmentID: 100,
		AccountID:     ptr.Ptr[int64](1),
		Reason:        "client asked to reschedule",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.False(t, resp.CancelledAt.IsZero())

	// Слот освободился - производные результаты аккаунта сброшены
	assert.Equal(t, []int64{1}, env.cache.invalidated)

	email := waitFor(t, env.notify.sent, "cancellation email")
	require.NotNil(t, email.CancelReason)
	assert.Equal(t, "client asked to reschedule", *email.CancelReason)
	assert.Equal(t, "Consultation", email.AppointmentName)
	assert.Equal(t, domain.DefaultTimezone, email.Timezone)
}

func TestExecuteManageTokenPath(t *testing.T) {
	env := newTestEnv(t)
	env.notify.sent = make(chan *notifyservice.BookingEmail, 1)
	env.calendar.deleted = make(chan string, 1)

	eventID := "evt-1"
	env.appts.byID[100].CalendarEventID = &eventID

	resp, err := env.uc.Execute(context.Background(), &Request{
		ManageToken: &env.token,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)

	// Событие внешнего календаря удалено в фоне
	assert.Equal(t, "evt-1", waitFor(t, env.calendar.deleted, "calendar event deletion"))
	waitFor(t, env.notify.sent, "cancellation email")
}

func TestExecuteManageTokenMismatch(t *testing.T) {
	env := newTestEnv(t)

	// Токен валиден, но указывает на другую запись
	_, err := env.uc.Execute(context.Background(), &Request{
		AppointmentID: 999,
		ManageToken:   &env.token,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, env.cache.invalidated)
}

func TestExecuteForeignAccount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Execute(context.Background(), &Request{
		AppointmentID: 100,
		AccountID:     ptr.Ptr[int64](2),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecuteNotFound(t *testing.T) {
	t.Run("by id", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.Execute(context.Background(), &Request{
			AppointmentID: 404,
			AccountID:     ptr.Ptr[int64](1),
		})
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("by unknown token", func(t *testing.T) {
		env := newTestEnv(t)
		unknown := uuid.New()

		_, err := env.uc.Execute(context.Background(), &Request{
			ManageToken: &unknown,
		})
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestExecuteCannotCancel(t *testing.T) {
	t.Run("already cancelled", func(t *testing.T) {
		env := newTestEnv(t)
		env.appts.byID[100].Status = domain.StatusCancelled

		_, err := env.uc.Execute(context.Background(), &Request{
			AppointmentID: 100,
			AccountID:     ptr.Ptr[int64](1),
		})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("completed", func(t *testing.T) {
		env := newTestEnv(t)
		env.appts.byID[100].Status = domain.StatusCompleted

		_, err := env.uc.Execute(context.Background(), &Request{
			AppointmentID: 100,
			AccountID:     ptr.Ptr[int64](1),
		})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("status lost between read and cancel", func(t *testing.T) {
		env := newTestEnv(t)
		env.appts.cancelErr = appointmentRepo.ErrAppointmentNotFound

		_, err := env.uc.Execute(context.Background(), &Request{
			AppointmentID: 100,
			AccountID:     ptr.Ptr[int64](1),
		})
		assert.ErrorIs(t, err, ErrCannotCancel)
		assert.Empty(t, env.cache.invalidated)
	})
}

func TestExecuteValidation(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{"no credentials", &Request{AppointmentID: 100}},
		{"no appointment id without token", &Request{AccountID: ptr.Ptr[int64](1)}},
		{"non-positive account id", &Request{AppointmentID: 100, AccountID: ptr.Ptr[int64](0)}},
		{"reason too long", &Request{
			AppointmentID: 100,
			AccountID:     ptr.Ptr[int64](1),
			Reason:        strings.Repeat("x", domain.MaxReasonLength+1),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
