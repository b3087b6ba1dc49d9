package models

import (
	"errors"
	"time"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	"github.com/avdeevsm/SWB-AvailabilityService/pkg/ptr"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// ListAppointmentsRequest запрос на получение записей аккаунта
type ListAppointmentsRequest struct {
	AccountID        int64      `json:"accountId"`
	StartDate        *time.Time `json:"startDate,omitempty"`        // Начало периода (опционально)
	EndDate          *time.Time `json:"endDate,omitempty"`          // Конец периода (опционально)
	Status           *string    `json:"status,omitempty"`           // Фильтр по статусу (опционально)
	IncludeCancelled bool       `json:"includeCancelled,omitempty"` // Включить отменённые записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		AccountID:        r.AccountID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                int64  `json:"id"`
	AccountID         int64  `json:"accountId"`
	AppointmentTypeID int64  `json:"appointmentTypeId"`
	StartTime         string `json:"startTime"` // ISO 8601
	EndTime           string `json:"endTime"`   // ISO 8601
	Status            string `json:"status"`

	VisitorName  string  `json:"visitorName"`
	VisitorEmail string  `json:"visitorEmail"`
	VisitorPhone *string `json:"visitorPhone,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	CalendarEventID *string `json:"calendarEventId,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		AccountID:          a.AccountID,
		AppointmentTypeID:  a.AppointmentTypeID,
		StartTime:          a.StartTime.Format(time.RFC3339),
		EndTime:            a.EndTime.Format(time.RFC3339),
		Status:             string(a.Status),
		VisitorName:        a.VisitorName,
		VisitorEmail:       a.VisitorEmail,
		VisitorPhone:       a.VisitorPhone,
		Notes:              a.Notes,
		CalendarEventID:    a.CalendarEventID,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		resp.CancelledAt = ptr.Ptr(a.CancelledAt.Format(time.RFC3339))
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	if appointments == nil {
		return &AppointmentListResponse{
			Appointments: []AppointmentResponse{},
		}
	}

	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, len(appointments)),
	}

	for i, appointment := range appointments {
		if appointmentResp := FromDomainAppointment(appointment); appointmentResp != nil {
			resp.Appointments[i] = *appointmentResp
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)

	validStatuses := []domain.AppointmentStatus{
		domain.StatusConfirmed,
		domain.StatusCancelled,
		domain.StatusCompleted,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
