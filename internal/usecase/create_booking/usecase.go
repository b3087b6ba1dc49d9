package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	appointmentRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/appointment"
	typeRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/appointmenttype"
	calendarClient "github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/calendarservice"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/notifyservice"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/availability"
)

// sideEffectTimeout ограничивает фоновые операции после коммита:
// создание события в календаре и отправку письма
const sideEffectTimeout = 30 * time.Second

// UseCase use case для создания бронирования
type UseCase struct {
	appointmentRepo AppointmentRepository
	typeRepo        AppointmentTypeRepository
	availabilitySvc AvailabilityService
	calendarClient  CalendarClient
	notifyClient    NotifyClient
	cache           CacheInvalidator
	txManager       TransactionManager
	tokenGen        TokenGenerator
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	typeRepo AppointmentTypeRepository,
	availabilitySvc AvailabilityService,
	calendarClient CalendarClient,
	notifyClient NotifyClient,
	cache CacheInvalidator,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		typeRepo:        typeRepo,
		availabilitySvc: availabilitySvc,
		calendarClient:  calendarClient,
		notifyClient:    notifyClient,
		cache:           cache,
		txManager:       txManager,
		tokenGen:        uuid.New,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Использует сериализуемую транзакцию с повторной проверкой слота:
// списку слотов, который видел клиент, доверять нельзя. Последняя линия
// обороны от двойного бронирования - exclusion constraint в БД.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: account=%d, type=%d, start=%s, visitor=%s",
		req.AccountID, req.AppointmentTypeID, req.StartTime.Format(time.RFC3339), req.VisitorEmail)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем тип записи
	apptType, err := uc.typeRepo.GetByID(ctx, req.AccountID, req.AppointmentTypeID)
	if err != nil {
		if errors.Is(err, typeRepo.ErrTypeNotFound) {
			uc.logger.Warn("CreateBooking: appointment type id=%d not found for account=%d",
				req.AppointmentTypeID, req.AccountID)
			return nil, ErrTypeNotFound
		}
		uc.logger.Error("CreateBooking: failed to get appointment type id=%d: %v", req.AppointmentTypeID, err)
		return nil, fmt.Errorf("%w: failed to get appointment type: %v", ErrInternal, err)
	}

	if !apptType.IsActive {
		uc.logger.Warn("CreateBooking: appointment type id=%d is inactive", req.AppointmentTypeID)
		return nil, ErrTypeInactive
	}

	// 4. Получаем настройки доступности аккаунта
	settings, err := uc.availabilitySvc.Settings(ctx, req.AccountID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get settings for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
	}

	// 5. Проверяем минимальный интервал предупреждения
	if err := validateNotice(req.StartTime, now, settings.MinNoticeMinutes); err != nil {
		uc.logger.Warn("CreateBooking: notice validation failed: %v", err)
		return nil, err
	}

	requested := domain.Interval{
		Start: req.StartTime,
		End:   req.StartTime.Add(apptType.Duration()),
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 6. Повторная проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Слот проверяется заново по свежему состоянию: кэш обходится,
		// занятость внешнего календаря обязательна (fail closed)
		available, err := uc.availabilitySvc.IsSlotAvailable(txCtx, settings, apptType, requested, availability.BusyOptions{
			BypassCache: true,
		})
		if err != nil {
			if errors.Is(err, calendarClient.ErrCalendarUnavailable) {
				uc.logger.Warn("CreateBooking: calendar unavailable for account=%d, rejecting booking", req.AccountID)
				return ErrCalendarUnavailable
			}
			uc.logger.Error("CreateBooking: failed to check slot availability: %v", err)
			return fmt.Errorf("%w: failed to check slot availability: %v", ErrInternal, err)
		}

		if !available {
			uc.logger.Warn("CreateBooking: slot %s no longer available for account=%d",
				req.StartTime.Format(time.RFC3339), req.AccountID)
			return ErrSlotConflict
		}

		// 6.2. Занимаемое окно включает буферы типа записи - именно его
		// защищает exclusion constraint
		occupied := apptType.OccupiedWindow(req.StartTime)

		appointment := &domain.Appointment{
			AccountID:         req.AccountID,
			AppointmentTypeID: req.AppointmentTypeID,
			StartTime:         requested.Start,
			EndTime:           requested.End,
			OccupiedFrom:      occupied.Start,
			OccupiedTo:        occupied.End,
			Status:            domain.StatusConfirmed,
			ManageToken:       uc.tokenGen(),
			VisitorName:       req.VisitorName,
			VisitorEmail:      req.VisitorEmail,
			VisitorPhone:      req.VisitorPhone,
			Notes:             req.Notes,
		}

		// 6.3. Сохраняем запись
		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if appointmentRepo.IsConflict(err) {
				uc.logger.Warn("CreateBooking: concurrent booking conflict for account=%d, slot=%s",
					req.AccountID, req.StartTime.Format(time.RFC3339))
				return ErrSlotConflict
			}
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Сбой сериализации на уровне транзакции - тоже конфликт бронирования
		if appointmentRepo.IsConflict(err) {
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	// 7. Инвалидируем производные результаты аккаунта после коммита
	uc.cache.InvalidateAccount(req.AccountID)

	uc.logger.Info("CreateBooking: successfully created appointment id=%d for account=%d", result.ID, req.AccountID)

	// 8. Побочные эффекты выполняются вне транзакции и не влияют на результат:
	// запись уже создана, их сбои только логируются
	go uc.runSideEffects(result, apptType, settings)

	return &Response{
		ID:                result.ID,
		AccountID:         result.AccountID,
		AppointmentTypeID: result.AppointmentTypeID,
		StartTime:         result.StartTime,
		EndTime:           result.EndTime,
		Status:            string(result.Status),
		ManageToken:       result.ManageToken.String(),
		VisitorName:       result.VisitorName,
		VisitorEmail:      result.VisitorEmail,
		VisitorPhone:      result.VisitorPhone,
		Notes:             result.Notes,
		CreatedAt:         result.CreatedAt,
		UpdatedAt:         result.UpdatedAt,
	}, nil
}

// runSideEffects создает событие во внешнем календаре и отправляет
// письмо-подтверждение. Выполняется в фоне с собственным контекстом:
// HTTP-запрос к этому моменту уже завершен.
func (uc *UseCase) runSideEffects(apt *domain.Appointment, apptType *domain.AppointmentType, settings *domain.AvailabilitySettings) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if settings.CalendarSyncEnabled {
		eventID, err := uc.calendarClient.CreateEvent(ctx, apt.AccountID, &calendarClient.EventRequest{
			Title:        fmt.Sprintf("%s - %s", apptType.Name, apt.VisitorName),
			Start:        apt.StartTime,
			End:          apt.EndTime,
			VisitorName:  apt.VisitorName,
			VisitorEmail: apt.VisitorEmail,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create calendar event for appointment id=%d: %v", apt.ID, err)
		} else if err := uc.appointmentRepo.SetCalendarEventID(ctx, apt.ID, eventID); err != nil {
			uc.logger.Error("CreateBooking: failed to store calendar event id for appointment id=%d: %v", apt.ID, err)
		}
	}

	email := &notifyservice.BookingEmail{
		AccountID:       apt.AccountID,
		AppointmentID:   apt.ID,
		AppointmentName: apptType.Name,
		StartTime:       apt.StartTime,
		EndTime:         apt.EndTime,
		Timezone:        settings.Timezone,
		VisitorName:     apt.VisitorName,
		VisitorEmail:    apt.VisitorEmail,
		ManageToken:     apt.ManageToken.String(),
	}

	if err := uc.notifyClient.SendBookingConfirmation(ctx, email); err != nil {
		uc.logger.Error("CreateBooking: failed to send confirmation email for appointment id=%d: %v", apt.ID, err)
	}
}
