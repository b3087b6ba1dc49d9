package availability

import (
	"context"
	"time"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/calendarservice"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetWeeklyRules(ctx context.Context, accountID int64, day time.Weekday) ([]*domain.WeeklyRule, error)
	GetDateOverride(ctx context.Context, accountID int64, date time.Time) (*domain.DateOverride, error)
	GetSettings(ctx context.Context, accountID int64) (*domain.AvailabilitySettings, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByAccountAndRange(ctx context.Context, accountID int64, from, to time.Time) ([]*domain.Appointment, error)
}

// CalendarClient интерфейс клиента CalendarService
type CalendarClient interface {
	GetBusyIntervals(ctx context.Context, accountID int64, from, to time.Time) ([]calendarservice.BusyInterval, error)
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

// BusyOptions режим получения занятости внешних календарей
type BusyOptions struct {
	// BypassCache читать занятость напрямую, минуя под-кэш.
	// Путь записи обязан видеть свежие данные.
	BypassCache bool

	// AllowDegraded разрешает вернуть пустую занятость при недоступности
	// CalendarService, если это разрешено настройками аккаунта.
	// Только для read-пути; путь записи всегда fail closed.
	AllowDegraded bool
}
