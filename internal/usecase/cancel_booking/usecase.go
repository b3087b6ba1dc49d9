package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	appointmentRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/appointment"
	scheduleRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/schedule"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/integrations/notifyservice"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/ptr"
)

// sideEffectTimeout ограничивает фоновые операции после отмены:
// удаление события из календаря и отправку письма
const sideEffectTimeout = 30 * time.Second

// UseCase use case для отмены записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	typeRepo        AppointmentTypeRepository
	scheduleRepo    ScheduleRepository
	calendarClient  CalendarClient
	notifyClient    NotifyClient
	cache           CacheInvalidator
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	typeRepo AppointmentTypeRepository,
	scheduleRepo ScheduleRepository,
	calendarClient CalendarClient,
	notifyClient NotifyClient,
	cache CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		typeRepo:        typeRepo,
		scheduleRepo:    scheduleRepo,
		calendarClient:  calendarClient,
		notifyClient:    notifyClient,
		cache:           cache,
		logger:          logger,
	}
}

// Execute выполняет use case отмены записи.
// Отмена освобождает занимаемое окно: exclusion constraint игнорирует
// отмененные записи, слот снова доступен для бронирования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: appointment=%d", req.AppointmentID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Загружаем запись по одному из двух путей авторизации
	appointment, err := uc.resolveAppointment(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Проверяем, что запись можно отменить
	if !appointment.CanBeCancelled() {
		uc.logger.Warn("CancelBooking: appointment id=%d cannot be cancelled, status=%s",
			appointment.ID, appointment.Status)
		return nil, ErrCannotCancel
	}

	// 4. Отменяем запись
	if err := uc.appointmentRepo.Cancel(ctx, appointment.ID, req.Reason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			// Статус успел измениться между чтением и отменой
			uc.logger.Warn("CancelBooking: appointment id=%d lost cancellable status", appointment.ID)
			return nil, ErrCannotCancel
		}
		uc.logger.Error("CancelBooking: repository error for appointment id=%d: %v", appointment.ID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// 5. Инвалидируем производные результаты аккаунта: слот освободился
	uc.cache.InvalidateAccount(appointment.AccountID)

	// 6. Перечитываем запись ради проставленного БД времени отмены
	cancelled, err := uc.appointmentRepo.GetByID(ctx, appointment.ID)
	if err != nil {
		uc.logger.Error("CancelBooking: failed to re-read appointment id=%d: %v", appointment.ID, err)
		return nil, fmt.Errorf("%w: failed to re-read appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("CancelBooking: successfully cancelled appointment id=%d for account=%d",
		cancelled.ID, cancelled.AccountID)

	// 7. Побочные эффекты best effort: запись уже отменена
	go uc.runSideEffects(cancelled, req.Reason)

	resp := &Response{
		ID:     cancelled.ID,
		Status: string(cancelled.Status),
	}
	if cancelled.CancelledAt != nil {
		resp.CancelledAt = *cancelled.CancelledAt
	}
	return resp, nil
}

// resolveAppointment загружает запись и авторизует доступ.
// Токен управления имеет приоритет: по нему посетитель отменяет запись
// без аккаунта. Иначе запись должна принадлежать указанному аккаунту.
func (uc *UseCase) resolveAppointment(ctx context.Context, req *Request) (*domain.Appointment, error) {
	if req.ManageToken != nil {
		appointment, err := uc.appointmentRepo.GetByManageToken(ctx, *req.ManageToken)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("CancelBooking: no appointment for manage token")
				return nil, ErrAppointmentNotFound
			}
			uc.logger.Error("CancelBooking: repository error by manage token: %v", err)
			return nil, fmt.Errorf("%w: GetByManageToken - repository error: %v", ErrInternal, err)
		}

		// Если ID в запросе указан, он обязан совпадать с записью токена
		if req.AppointmentID > 0 && appointment.ID != req.AppointmentID {
			uc.logger.Warn("CancelBooking: manage token does not match appointment id=%d", req.AppointmentID)
			return nil, ErrAccessDenied
		}

		return appointment, nil
	}

	appointment, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CancelBooking: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CancelBooking: repository error for appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if appointment.AccountID != *req.AccountID {
		uc.logger.Warn("CancelBooking: access denied for account=%d to appointment id=%d",
			*req.AccountID, req.AppointmentID)
		return nil, ErrAccessDenied
	}

	return appointment, nil
}

// runSideEffects удаляет событие из внешнего календаря и отправляет
// письмо об отмене. Выполняется в фоне, сбои только логируются.
func (uc *UseCase) runSideEffects(apt *domain.Appointment, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if apt.CalendarEventID != nil {
		if err := uc.calendarClient.DeleteEvent(ctx, apt.AccountID, *apt.CalendarEventID); err != nil {
			uc.logger.Error("CancelBooking: failed to delete calendar event for appointment id=%d: %v", apt.ID, err)
		}
	}

	email := &notifyservice.BookingEmail{
		AccountID:     apt.AccountID,
		AppointmentID: apt.ID,
		StartTime:     apt.StartTime,
		EndTime:       apt.EndTime,
		VisitorName:   apt.VisitorName,
		VisitorEmail:  apt.VisitorEmail,
		ManageToken:   apt.ManageToken.String(),
	}
	if reason != "" {
		email.CancelReason = ptr.Ptr(reason)
	}

	// Название типа и таймзона нужны только для письма, их отсутствие
	// не блокирует отправку
	if apptType, err := uc.typeRepo.GetByID(ctx, apt.AccountID, apt.AppointmentTypeID); err == nil {
		email.AppointmentName = apptType.Name
	}
	if settings, err := uc.scheduleRepo.GetSettings(ctx, apt.AccountID); err == nil {
		email.Timezone = settings.Timezone
	} else if errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
		email.Timezone = domain.DefaultTimezone
	}

	if err := uc.notifyClient.SendBookingCancellation(ctx, email); err != nil {
		uc.logger.Error("CancelBooking: failed to send cancellation email for appointment id=%d: %v", apt.ID, err)
	}
}
