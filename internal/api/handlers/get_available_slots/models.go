package get_available_slots

import (
	"time"

	getAvailableSlots "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP model одного слота
type SlotResponse struct {
	StartTime string `json:"startTime"` // ISO 8601
	EndTime   string `json:"endTime"`   // ISO 8601
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	AccountID         int64          `json:"accountId"`
	AppointmentTypeID int64          `json:"appointmentTypeId"`
	Date              string         `json:"date"`
	Timezone          string         `json:"timezone"`
	Slots             []SlotResponse `json:"slots"`
	Cached            bool           `json:"cached"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime: slot.StartTime.Format(time.RFC3339),
			EndTime:   slot.EndTime.Format(time.RFC3339),
		}
	}

	return &AvailableSlotsResponse{
		AccountID:         resp.AccountID,
		AppointmentTypeID: resp.AppointmentTypeID,
		Date:              resp.Date,
		Timezone:          resp.Timezone,
		Slots:             slots,
		Cached:            resp.Cached,
	}
}
