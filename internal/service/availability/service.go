package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	scheduleRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/schedule"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/calendarservice"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/cache"
)

// Service сервис вычисления доступности: резолвер правил расписания,
// занятость внешних календарей (через под-кэш) и генерация слотов.
type Service struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	calendarClient  CalendarClient
	cache           cache.Cache
	calendarTTL     time.Duration
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый сервис доступности
func NewService(
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	calendarClient CalendarClient,
	c cache.Cache,
	calendarTTL time.Duration,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		calendarClient:  calendarClient,
		cache:           c,
		calendarTTL:     calendarTTL,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Settings возвращает настройки доступности аккаунта.
// Аккаунт без сохраненных настроек получает дефолтные значения.
func (s *Service) Settings(ctx context.Context, accountID int64) (*domain.AvailabilitySettings, error) {
	settings, err := s.scheduleRepo.GetSettings(ctx, accountID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
			return &domain.AvailabilitySettings{
				AccountID:        accountID,
				Timezone:         domain.DefaultTimezone,
				MinNoticeMinutes: domain.DefaultMinNoticeMinutes,
				DaysAhead:        domain.DefaultDaysAhead,
			}, nil
		}
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}
	return settings, nil
}

// DayBounds возвращает границы календарного дня date в таймзоне settings.
// Сутки вычисляются через AddDate, а не +24h: переход на летнее время
// делает некоторые дни длиннее или короче 24 часов.
func (s *Service) DayBounds(settings *domain.AvailabilitySettings, date time.Time) (time.Time, time.Time, error) {
	loc, err := settings.Location()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, settings.Timezone, err)
	}

	local := date.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return dayStart, dayStart.AddDate(0, 0, 1), nil
}

// CalendarBusy возвращает занятые интервалы внешних календарей аккаунта
// на календарный день date. Результат проходит через 15-минутный под-кэш:
// сторонний календарь меняется независимо от нас, и его устаревание -
// единственный источник риска двойного бронирования, который не закрывается
// явной инвалидацией.
func (s *Service) CalendarBusy(ctx context.Context, settings *domain.AvailabilitySettings, date time.Time, opts BusyOptions) ([]domain.Interval, error) {
	if !settings.CalendarSyncEnabled {
		return []domain.Interval{}, nil
	}

	dayStart, dayEnd, err := s.DayBounds(settings, date)
	if err != nil {
		return nil, err
	}

	// Ключ строится из дня в таймзоне аккаунта, а не из зоны входного
	// значения: одна и та же дата, переданная в разных зонах, должна
	// попадать в одну запись под-кэша
	dateKey := dayStart.Format(domain.DateFormat)
	key := cache.BusyKey(settings.AccountID, dateKey)

	if !opts.BypassCache {
		if cached, ok := cache.GetTyped[[]domain.Interval](s.cache, key); ok {
			return cached, nil
		}
	}

	raw, err := s.calendarClient.GetBusyIntervals(ctx, settings.AccountID, dayStart, dayEnd)
	if err != nil {
		if errors.Is(err, calendarservice.ErrCalendarUnavailable) &&
			opts.AllowDegraded && settings.DegradeOnCalendarError {
			s.logger.Warn("CalendarBusy: degrading to empty busy set for account=%d date=%s: %v",
				settings.AccountID, dateKey, err)
			return []domain.Interval{}, nil
		}
		return nil, err
	}

	busy := make([]domain.Interval, 0, len(raw))
	for _, b := range raw {
		interval, err := domain.NewInterval(b.Start, b.End)
		if err != nil {
			// Стороннее событие нулевой длительности не блокирует слоты
			s.logger.Warn("CalendarBusy: skipping malformed busy interval for account=%d: %v",
				settings.AccountID, err)
			continue
		}
		busy = append(busy, interval)
	}
	busy = domain.MergeIntervals(busy)

	s.cache.Set(key, busy, s.calendarTTL)

	return busy, nil
}

// ResolveOpenIntervals возвращает интервалы, в которые владелец аккаунта
// объявил себя доступным на дату date (до вычитания занятости).
//
// Override на дату, если задан, ПОЛНОСТЬЮ заменяет еженедельные правила:
// закрыт - пустой результат, открыт - ровно один интервал. Без override
// берутся все правила этого дня недели с is_available, их пересечения
// сливаются. Все времена интерпретируются в таймзоне аккаунта.
func (s *Service) ResolveOpenIntervals(ctx context.Context, settings *domain.AvailabilitySettings, date time.Time) ([]domain.Interval, error) {
	loc, err := settings.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, settings.Timezone, err)
	}

	// Календарный день определяется таймзоной аккаунта, а не зоной входного значения
	date = date.In(loc)

	override, err := s.scheduleRepo.GetDateOverride(ctx, settings.AccountID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get date override: %v", ErrInternal, err)
	}

	if override != nil {
		if !override.IsAvailable || override.StartTime == nil || override.EndTime == nil {
			return []domain.Interval{}, nil
		}

		start, err := override.StartTime.OnDate(date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: override start time: %v", ErrInternal, err)
		}
		end, err := override.EndTime.OnDate(date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: override end time: %v", ErrInternal, err)
		}

		interval, err := domain.NewInterval(start, end)
		if err != nil {
			return nil, fmt.Errorf("%w: override interval: %v", ErrInternal, err)
		}

		return []domain.Interval{interval}, nil
	}

	rules, err := s.scheduleRepo.GetWeeklyRules(ctx, settings.AccountID, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get weekly rules: %v", ErrInternal, err)
	}

	open := make([]domain.Interval, 0, len(rules))
	for _, rule := range rules {
		if !rule.IsAvailable {
			continue
		}

		start, err := rule.StartTime.OnDate(date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: rule start time: %v", ErrInternal, err)
		}
		end, err := rule.EndTime.OnDate(date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: rule end time: %v", ErrInternal, err)
		}

		interval, err := domain.NewInterval(start, end)
		if err != nil {
			return nil, fmt.Errorf("%w: rule interval: %v", ErrInternal, err)
		}

		open = append(open, interval)
	}

	return domain.MergeIntervals(open), nil
}
