package get_available_dates

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

// UseCase use case для получения доступных дат виджетом
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

// Execute выполняет use case получения доступных дат.
// Самая дорогая операция read-пути: полный пересчет слотов на каждый день
// горизонта, поэтому производный результат обязательно кэшируется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableDates: account=%d, type=%d, daysAhead=%d",
		req.AccountID, req.AppointmentTypeID, req.DaysAhead)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableDates: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем тип записи
	apptType, err := uc.typeRepo.GetByID(ctx, req.AccountID, req.AppointmentTypeID)
	if err != nil {
		if errors.Is(err, typeRepo.ErrTypeNotFound) {
			uc.logger.Warn("GetAvailableDates: appointment type id=%d not found for account=%d",
				req.AppointmentTypeID, req.AccountID)
			return nil, ErrTypeNotFound
		}
		uc.logger.Error("GetAvailableDates: failed to get appointment type id=%d: %v", req.AppointmentTypeID, err)
		return nil, fmt.Errorf("%w: failed to get appointment type: %v", ErrInternal, err)
	}

	if !apptType.IsActive {
		uc.logger.Warn("GetAvailableDates: appointment type id=%d is inactive", req.AppointmentTypeID)
		return nil, ErrTypeInactive
	}

	// 3. Получаем настройки доступности аккаунта
	settings, err := uc.availabilitySvc.Settings(ctx, req.AccountID)
	if err != nil {
		uc.logger.Error("GetAvailableDates: failed to get settings for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// Горизонт запроса не может превышать настройку аккаунта
	daysAhead := settings.DaysAhead
	if req.DaysAhead > 0 && req.DaysAhead < daysAhead {
		daysAhead = req.DaysAhead
	}

	resp := &Response{
		AccountID:         req.AccountID,
		AppointmentTypeID: req.AppointmentTypeID,
		Timezone:          settings.Timezone,
		DaysAhead:         daysAhead,
	}

	// 4. Проверяем кэш производных результатов
	key := cache.DatesKey(req.AccountID, req.AppointmentTypeID, daysAhead)
	if dates, ok := cache.GetTyped[[]string](uc.cache, key); ok {
		uc.logger.Info("GetAvailableDates: cache hit for account=%d, type=%d", req.AccountID, req.AppointmentTypeID)
		resp.Dates = dates
		resp.Cached = true
		return resp, nil
	}

	// 5. Вычисляем доступные даты
	available, err := uc.availabilitySvc.AvailableDates(ctx, settings, apptType, daysAhead, availability.BusyOptions{
		AllowDegraded: true,
	})
	if err != nil {
		if errors.Is(err, calendarClient.ErrCalendarUnavailable) {
			uc.logger.Warn("GetAvailableDates: calendar unavailable for account=%d", req.AccountID)
			return nil, ErrCalendarUnavailable
		}
		uc.logger.Error("GetAvailableDates: failed to compute dates for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: failed to compute dates: %v", ErrInternal, err)
	}

	dates := make([]string, len(available))
	for i, date := range available {
		dates[i] = date.Format(domain.DateFormat)
	}

	// 6. Сохраняем производный результат
	uc.cache.Set(key, dates, uc.derivedTTL)

	uc.logger.Info("GetAvailableDates: computed %d available dates for account=%d, type=%d",
		len(dates), req.AccountID, req.AppointmentTypeID)

	resp.Dates = dates
	return resp, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AccountID <= 0 {
		return fmt.Errorf("%w: accountID must be positive", ErrInvalidInput)
	}

	if req.AppointmentTypeID <= 0 {
		return fmt.Errorf("%w: appointmentTypeID must be positive", ErrInvalidInput)
	}

	if req.DaysAhead < 0 || req.DaysAhead > domain.MaxDaysAhead {
		return fmt.Errorf("%w: daysAhead must be between 0 and %d", ErrInvalidInput, domain.MaxDaysAhead)
	}

	return nil
}
