package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	typeRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/appointmenttype"
	calendarClient "github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/calendarservice"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/availability"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/cache"
)

// UseCase use case для получения доступных слотов виджетом
type UseCase struct {
	typeRepo        AppointmentTypeRepository
	availabilitySvc AvailabilityService
	cache           Cache
	derivedTTL      time.Duration
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	typeRepo AppointmentTypeRepository,
	availabilitySvc AvailabilityService,
	cache Cache,
	derivedTTL time.Duration,
	logger Logger,
) *UseCase {
	if derivedTTL <= 0 {
		derivedTTL = domain.DerivedCacheTTL
	}
	return &UseCase{
		typeRepo:        typeRepo,
		availabilitySvc: availabilitySvc,
		cache:           cache,
		derivedTTL:      derivedTTL,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов.
// Производный результат кэшируется: он инвалидируется при каждой локальной
// мутации аккаунта, поэтому устаревание ограничено только внешним календарем.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: account=%d, type=%d, date=%s",
		req.AccountID, req.AppointmentTypeID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем тип записи
	apptType, err := uc.typeRepo.GetByID(ctx, req.AccountID, req.AppointmentTypeID)
	if err != nil {
		if errors.Is(err, typeRepo.ErrTypeNotFound) {
			uc.logger.Warn("GetAvailableSlots: appointment type id=%d not found for account=%d",
				req.AppointmentTypeID, req.AccountID)
			return nil, ErrTypeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get appointment type id=%d: %v", req.AppointmentTypeID, err)
		return nil, fmt.Errorf("%w: failed to get appointment type: %v", ErrInternal, err)
	}

	if !apptType.IsActive {
		uc.logger.Warn("GetAvailableSlots: appointment type id=%d is inactive", req.AppointmentTypeID)
		return nil, ErrTypeInactive
	}

	// 3. Получаем настройки доступности аккаунта
	settings, err := uc.availabilitySvc.Settings(ctx, req.AccountID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get settings for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	loc, err := settings.Location()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid timezone %q for account=%d: %v",
			settings.Timezone, req.AccountID, err)
		return nil, fmt.Errorf("%w: invalid account timezone: %v", ErrInternal, err)
	}

	// Запрошенный день - календарная дата в таймзоне аккаунта. Параметр
	// приходит как полночь UTC, и для зон западнее UTC In(loc) сдвинул бы
	// его на предыдущие сутки, поэтому полночь заново берется в loc.
	day := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
	dateStr := day.Format(domain.DateFormat)

	resp := &Response{
		AccountID:         req.AccountID,
		AppointmentTypeID: req.AppointmentTypeID,
		Date:              dateStr,
		Timezone:          settings.Timezone,
	}

	// 4. Проверяем кэш производных результатов
	key := cache.SlotsKey(req.AccountID, req.AppointmentTypeID, dateStr)
	if slots, ok := cache.GetTyped[[]Slot](uc.cache, key); ok {
		uc.logger.Info("GetAvailableSlots: cache hit for account=%d, type=%d, date=%s",
			req.AccountID, req.AppointmentTypeID, dateStr)
		resp.Slots = slots
		resp.Cached = true
		return resp, nil
	}

	// 5. Вычисляем слоты. Read-путь может деградировать до пустой занятости
	// календаря, если это разрешено настройками аккаунта
	intervals, err := uc.availabilitySvc.GenerateSlots(ctx, settings, apptType, day, availability.BusyOptions{
		AllowDegraded: true,
	})
	if err != nil {
		if errors.Is(err, calendarClient.ErrCalendarUnavailable) {
			uc.logger.Warn("GetAvailableSlots: calendar unavailable for account=%d", req.AccountID)
			return nil, ErrCalendarUnavailable
		}
		uc.logger.Error("GetAvailableSlots: failed to generate slots for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	slots := make([]Slot, len(intervals))
	for i, interval := range intervals {
		slots[i] = Slot{StartTime: interval.Start, EndTime: interval.End}
	}

	// 6. Сохраняем производный результат
	uc.cache.Set(key, slots, uc.derivedTTL)

	uc.logger.Info("GetAvailableSlots: computed %d slots for account=%d, type=%d, date=%s",
		len(slots), req.AccountID, req.AppointmentTypeID, dateStr)

	resp.Slots = slots
	return resp, nil
}
