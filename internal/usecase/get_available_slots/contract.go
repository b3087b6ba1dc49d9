package get_available_slots

import (
	"context"
	"time"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/availability"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/cache"
)

// AppointmentTypeRepository интерфейс репозитория типов записей
type AppointmentTypeRepository interface {
	GetByID(ctx context.Context, accountID, typeID int64) (*domain.AppointmentType, error)
}

// AvailabilityService интерфейс сервиса доступности
type AvailabilityService interface {
	Settings(ctx context.Context, accountID int64) (*domain.AvailabilitySettings, error)
	GenerateSlots(ctx context.Context, settings *domain.AvailabilitySettings, apptType *domain.AppointmentType, date time.Time, opts availability.BusyOptions) ([]domain.Interval, error)
}

// Cache интерфейс кэша производных результатов
type Cache interface {
	Get(key cache.Key) (interface{}, bool)
	Set(key cache.Key, value interface{}, ttl time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
