package get_available_dates

import (
	getAvailableDates "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/get_available_dates"
)

// AvailableDatesResponse HTTP response model
type AvailableDatesResponse struct {
	AccountID         int64    `json:"accountId"`
	AppointmentTypeID int64    `json:"appointmentTypeId"`
	Timezone          string   `json:"timezone"`
	DaysAhead         int      `json:"daysAhead"`
	Dates             []string `json:"dates"`
	Cached            bool     `json:"cached"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableDates.Response) *AvailableDatesResponse {
	dates := resp.Dates
	if dates == nil {
		dates = []string{}
	}

	return &AvailableDatesResponse{
		AccountID:         resp.AccountID,
		AppointmentTypeID: resp.AppointmentTypeID,
		Timezone:          resp.Timezone,
		DaysAhead:         resp.DaysAhead,
		Dates:             dates,
		Cached:            resp.Cached,
	}
}
