package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	appointmentRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/appointment"
	scheduleRepo "github.com/avdeevsm/SWB-AvailabilityService/internal/infra/storage/schedule"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/appointments/models"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/ptr"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, scheduleRepo ScheduleRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - запись видна только владеющему аккаунту
func (s *Service) GetByID(ctx context.Context, id int64, accountID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for account=%d", id, accountID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if appointment.AccountID != accountID {
		s.logger.Warn("GetByID: access denied for account=%d to appointment id=%d", accountID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetByManageToken получает запись по токену управления
// Токен выдается посетителю при создании записи и не требует аккаунта
func (s *Service) GetByManageToken(ctx context.Context, token uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByManageToken: fetching appointment by manage token")

	appointment, err := s.appointmentRepo.GetByManageToken(ctx, token)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByManageToken: appointment not found")
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByManageToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByManageToken - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByManageToken: successfully fetched appointment id=%d", appointment.ID)
	return models.FromDomainAppointment(appointment), nil
}

// ListByAccount получает записи аккаунта с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению отменённых записей
//
// Примеры использования:
// - Все активные записи: ListByAccount(ctx, &ListAppointmentsRequest{AccountID: 123})
// - Записи за период: указать StartDate и EndDate
// - Только завершённые: указать Status = "completed"
// - Включая отменённые: IncludeCancelled = true
func (s *Service) ListByAccount(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	// Логируем запрос с деталями фильтрации
	logMsg := fmt.Sprintf("ListByAccount: fetching appointments for account=%d", req.AccountID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		s.logger.Warn("ListByAccount: invalid period for account=%d", req.AccountID)
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	// Границы периода - календарные даты; парсер отдает их как полночь UTC,
	// а сравниваются они с моментами start_time, поэтому полночь заново
	// берется в таймзоне аккаунта
	if req.StartDate != nil || req.EndDate != nil {
		loc, err := s.accountLocation(ctx, req.AccountID)
		if err != nil {
			s.logger.Error("ListByAccount: failed to resolve timezone for account=%d: %v", req.AccountID, err)
			return nil, fmt.Errorf("%w: ListByAccount - resolve timezone: %v", ErrInternal, err)
		}
		if req.StartDate != nil {
			req.StartDate = ptr.Ptr(midnightIn(*req.StartDate, loc))
		}
		if req.EndDate != nil {
			req.EndDate = ptr.Ptr(midnightIn(*req.EndDate, loc))
		}
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByAccount: invalid filter for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByAccount: repository error for account=%d: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: ListByAccount - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByAccount: successfully fetched %d appointments for account=%d", len(appointments), req.AccountID)
	return models.FromDomainAppointmentList(appointments), nil
}

// accountLocation возвращает таймзону аккаунта.
// Аккаунт без сохраненных настроек живет в таймзоне по умолчанию.
func (s *Service) accountLocation(ctx context.Context, accountID int64) (*time.Location, error) {
	settings, err := s.scheduleRepo.GetSettings(ctx, accountID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
			return time.LoadLocation(domain.DefaultTimezone)
		}
		return nil, err
	}
	return settings.Location()
}

// midnightIn возвращает полночь календарного дня d в таймзоне loc
func midnightIn(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
