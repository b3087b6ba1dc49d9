package create_booking

import (
	"time"

	createBooking "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	AccountID         int64   `json:"accountId"`
	AppointmentTypeID int64   `json:"appointmentTypeId"`
	StartTime         string  `json:"startTime"` // ISO 8601, как вернул список слотов
	VisitorName       string  `json:"visitorName"`
	VisitorEmail      string  `json:"visitorEmail"`
	VisitorPhone      *string `json:"visitorPhone,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                int64   `json:"id"`
	AccountID         int64   `json:"accountId"`
	AppointmentTypeID int64   `json:"appointmentTypeId"`
	StartTime         string  `json:"startTime"`
	EndTime           string  `json:"endTime"`
	Status            string  `json:"status"`
	ManageToken       string  `json:"manageToken"`
	VisitorName       string  `json:"visitorName"`
	VisitorEmail      string  `json:"visitorEmail"`
	VisitorPhone      *string `json:"visitorPhone,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		AccountID:         r.AccountID,
		AppointmentTypeID: r.AppointmentTypeID,
		StartTime:         startTime,
		VisitorName:       r.VisitorName,
		VisitorEmail:      r.VisitorEmail,
		VisitorPhone:      r.VisitorPhone,
		Notes:             r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		AccountID:         resp.AccountID,
		AppointmentTypeID: resp.AppointmentTypeID,
		StartTime:         resp.StartTime.Format(time.RFC3339),
		EndTime:           resp.EndTime.Format(time.RFC3339),
		Status:            resp.Status,
		ManageToken:       resp.ManageToken,
		VisitorName:       resp.VisitorName,
		VisitorEmail:      resp.VisitorEmail,
		VisitorPhone:      resp.VisitorPhone,
		Notes:             resp.Notes,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
