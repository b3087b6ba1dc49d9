package cancel_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/notifyservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByManageToken(ctx context.Context, token uuid.UUID) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// AppointmentTypeRepository интерфейс репозитория типов записей
type AppointmentTypeRepository interface {
	GetByID(ctx context.Context, accountID, typeID int64) (*domain.AppointmentType, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetSettings(ctx context.Context, accountID int64) (*domain.AvailabilitySettings, error)
}

// CalendarClient интерфейс клиента CalendarService
type CalendarClient interface {
	DeleteEvent(ctx context.Context, accountID int64, eventID string) error
}

// NotifyClient интерфейс клиента NotifyService
type NotifyClient interface {
	SendBookingCancellation(ctx context.Context, email *notifyservice.BookingEmail) error
}

// CacheInvalidator интерфейс для инвалидации кэша доступности
type CacheInvalidator interface {
	InvalidateAccount(accountID int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
