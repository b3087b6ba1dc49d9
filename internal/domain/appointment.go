package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a confirmed visitor booking in the system
type Appointment struct {
	ID                int64
	AccountID         int64
	AppointmentTypeID int64
	StartTime         time.Time
	EndTime           time.Time

	// Занимаемое на календаре окно с учетом буферов типа записи.
	// Именно оно участвует в exclusion constraint против двойного бронирования.
	OccupiedFrom time.Time
	OccupiedTo   time.Time

	Status AppointmentStatus

	// ManageToken токен управления записью для посетителя (отмена без аккаунта)
	ManageToken uuid.UUID

	// CalendarEventID ID события во внешнем календаре (если создано)
	CalendarEventID *string

	// Данные посетителя из формы виджета
	VisitorName  string
	VisitorEmail string
	VisitorPhone *string
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled.
// Единственный поддерживаемый переход после создания: confirmed -> cancelled.
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusConfirmed
}

// OccupiedInterval возвращает занимаемое на календаре окно (с буферами)
func (a *Appointment) OccupiedInterval() Interval {
	return Interval{Start: a.OccupiedFrom, End: a.OccupiedTo}
}

// AppointmentsFilter фильтр для выборки записей аккаунта
type AppointmentsFilter struct {
	AccountID        int64              // Обязательный параметр
	StartDate        *time.Time         // Начало периода (опционально)
	EndDate          *time.Time         // Конец периода (опционально)
	Status           *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отмененные записи
}
