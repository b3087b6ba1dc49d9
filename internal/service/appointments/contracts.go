package appointments

import (
	"context"

	"github.com/google/uuid"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByManageToken(ctx context.Context, token uuid.UUID) (*domain.Appointment, error)
	ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписаний (настройки аккаунта)
type ScheduleRepository interface {
	GetSettings(ctx context.Context, accountID int64) (*domain.AvailabilitySettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
