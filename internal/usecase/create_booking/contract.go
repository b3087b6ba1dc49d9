package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/calendarservice"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/notifyservice"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/availability"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error)
	SetCalendarEventID(ctx context.Context, id int64, eventID string) error
}

// AppointmentTypeRepository интерфейс репозитория типов записей
type AppointmentTypeRepository interface {
	GetByID(ctx context.Context, accountID, typeID int64) (*domain.AppointmentType, error)
}

// AvailabilityService интерфейс сервиса доступности
type AvailabilityService interface {
	Settings(ctx context.Context, accountID int64) (*domain.AvailabilitySettings, error)
	IsSlotAvailable(ctx context.Context, settings *domain.AvailabilitySettings, apptType *domain.AppointmentType, requested domain.Interval, opts availability.BusyOptions) (bool, error)
}

// CalendarClient интерфейс клиента CalendarService
type CalendarClient interface {
	CreateEvent(ctx context.Context, accountID int64, event *calendarservice.EventRequest) (string, error)
}

// NotifyClient интерфейс клиента NotifyService
type NotifyClient interface {
	SendBookingConfirmation(ctx context.Context, email *notifyservice.BookingEmail) error
}

// CacheInvalidator интерфейс для инвалидации кэша доступности
type CacheInvalidator interface {
	InvalidateAccount(accountID int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TokenGenerator генератор токенов управления записью
type TokenGenerator func() uuid.UUID

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
