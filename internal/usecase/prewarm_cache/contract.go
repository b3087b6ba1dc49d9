package prewarm_cache

import (
	"context"
	"time"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/availability"
)

// AvailabilityService интерфейс сервиса доступности
type AvailabilityService interface {
	Settings(ctx context.Context, accountID int64) (*domain.AvailabilitySettings, error)
	CalendarBusy(ctx context.Context, settings *domain.AvailabilitySettings, date time.Time, opts availability.BusyOptions) ([]domain.Interval, error)
}

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
