package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
)

// GenerateSlots возвращает упорядоченный список доступных слотов типа записи
// apptType на календарный день date.
//
// Алгоритм:
//  1. open - интервалы доступности из правил расписания;
//  2. busy - объединение занятости внешних календарей и занимаемых окон
//     активных записей (буферы уже учтены в occupied_from/occupied_to);
//  3. free = open - busy;
//  4. по каждому свободному интервалу курсор шагает с шагом duration;
//     кандидат - каждая позиция, где [cursor, cursor+duration] целиком
//     помещается в свободный интервал. Буферы между кандидатами не
//     вставляются - они уже запечены в занятость календаря;
//  5. кандидаты раньше now + minNotice отбрасываются.
//
// Результат детерминирован: одинаковые входы дают одинаковый вывод.
func (s *Service) GenerateSlots(
	ctx context.Context,
	settings *domain.AvailabilitySettings,
	apptType *domain.AppointmentType,
	date time.Time,
	opts BusyOptions,
) ([]domain.Interval, error) {
	open, err := s.ResolveOpenIntervals(ctx, settings, date)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return []domain.Interval{}, nil
	}

	dayStart, dayEnd, err := s.DayBounds(settings, date)
	if err != nil {
		return nil, err
	}

	calendarBusy, err := s.CalendarBusy(ctx, settings, date, opts)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.GetByAccountAndRange(ctx, settings.AccountID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	busy := make([]domain.Interval, 0, len(calendarBusy)+len(appointments))
	busy = append(busy, calendarBusy...)
	for _, apt := range appointments {
		if !apt.IsActive() {
			continue
		}
		busy = append(busy, apt.OccupiedInterval())
	}

	free := domain.SubtractIntervals(open, busy)

	duration := apptType.Duration()
	notBefore := s.timeProvider.Now().Add(time.Duration(settings.MinNoticeMinutes) * time.Minute)

	slots := make([]domain.Interval, 0)
	for _, interval := range free {
		for cursor := interval.Start; !cursor.Add(duration).After(interval.End); cursor = cursor.Add(duration) {
			if cursor.Before(notBefore) {
				continue
			}
			slots = append(slots, domain.Interval{Start: cursor, End: cursor.Add(duration)})
		}
	}

	return slots, nil
}

// IsSlotAvailable проверяет, что запрошенный интервал является валидным
// кандидатом при ТЕКУЩЕМ состоянии. Используется путем записи: списку слотов,
// полученному клиентом ранее, доверять нельзя - с тех пор могли появиться
// другие бронирования.
func (s *Service) IsSlotAvailable(
	ctx context.Context,
	settings *domain.AvailabilitySettings,
	apptType *domain.AppointmentType,
	requested domain.Interval,
	opts BusyOptions,
) (bool, error) {
	slots, err := s.GenerateSlots(ctx, settings, apptType, requested.Start, opts)
	if err != nil {
		return false, err
	}

	for _, slot := range slots {
		if slot.Start.Equal(requested.Start) && slot.End.Equal(requested.End) {
			return true, nil
		}
	}

	return false, nil
}

// AvailableDates возвращает даты горизонта daysAhead, на которые есть хотя бы
// один доступный слот. Даты нормализованы к полуночи таймзоны аккаунта.
func (s *Service) AvailableDates(
	ctx context.Context,
	settings *domain.AvailabilitySettings,
	apptType *domain.AppointmentType,
	daysAhead int,
	opts BusyOptions,
) ([]time.Time, error) {
	loc, err := settings.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, settings.Timezone, err)
	}

	now := s.timeProvider.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	dates := make([]time.Time, 0)
	for i := 0; i < daysAhead; i++ {
		date := today.AddDate(0, 0, i)

		slots, err := s.GenerateSlots(ctx, settings, apptType, date, opts)
		if err != nil {
			return nil, err
		}

		if len(slots) > 0 {
			dates = append(dates, date)
		}
	}

	return dates, nil
}
