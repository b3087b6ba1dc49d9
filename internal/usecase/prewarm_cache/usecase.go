package prewarm_cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/availability"
)

// prewarmTimeout ограничивает полный цикл прогрева одного аккаунта
const prewarmTimeout = 2 * time.Minute

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("prewarm_cache: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("prewarm_cache: internal error")
)

// Request модель запроса на прогрев кэша
type Request struct {
	AccountID int64 // ID аккаунта
	DaysAhead int   // Горизонт в днях (0 - использовать настройку аккаунта)
}

// UseCase use case для прогрева под-кэша занятости внешних календарей.
// Вызывается после onboarding-а аккаунта или переподключения календаря,
// чтобы первый посетитель виджета не ждал серию запросов к CalendarService.
type UseCase struct {
	availabilitySvc AvailabilityService
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(availabilitySvc AvailabilityService, logger Logger) *UseCase {
	return &UseCase{
		availabilitySvc: availabilitySvc,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute запускает прогрев в фоне и возвращается немедленно.
// Сбои отдельных дней логируются и не прерывают прогрев остальных.
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	if req.AccountID <= 0 {
		return fmt.Errorf("%w: accountID must be positive", ErrInvalidInput)
	}
	if req.DaysAhead < 0 || req.DaysAhead > domain.MaxDaysAhead {
		return fmt.Errorf("%w: daysAhead must be between 0 and %d", ErrInvalidInput, domain.MaxDaysAhead)
	}

	settings, err := uc.availabilitySvc.Settings(ctx, req.AccountID)
	if err != nil {
		uc.logger.Error("PrewarmCache: failed to get settings for account=%d: %v", req.AccountID, err)
		return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	daysAhead := settings.DaysAhead
	if req.DaysAhead > 0 && req.DaysAhead < daysAhead {
		daysAhead = req.DaysAhead
	}

	uc.logger.Info("PrewarmCache: starting prewarm for account=%d, daysAhead=%d", req.AccountID, daysAhead)

	go uc.prewarm(settings, daysAhead)

	return nil
}

// prewarm наполняет под-кэш занятости по дням горизонта.
// CalendarBusy сам кэширует результат каждого дня.
func (uc *UseCase) prewarm(settings *domain.AvailabilitySettings, daysAhead int) {
	ctx, cancel := context.WithTimeout(context.Background(), prewarmTimeout)
	defer cancel()

	loc, err := settings.Location()
	if err != nil {
		uc.logger.Error("PrewarmCache: invalid timezone %q for account=%d: %v",
			settings.Timezone, settings.AccountID, err)
		return
	}

	now := uc.timeProvider.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	warmed := 0
	for i := 0; i < daysAhead; i++ {
		date := today.AddDate(0, 0, i)

		if _, err := uc.availabilitySvc.CalendarBusy(ctx, settings, date, availability.BusyOptions{}); err != nil {
			uc.logger.Warn("PrewarmCache: failed to warm busy cache for account=%d, date=%s: %v",
				settings.AccountID, date.Format(domain.DateFormat), err)
			continue
		}
		warmed++
	}

	uc.logger.Info("PrewarmCache: warmed %d/%d days for account=%d", warmed, daysAhead, settings.AccountID)
}
