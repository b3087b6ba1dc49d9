package cancel_booking

import (
	"time"

	cancelBooking "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model.
// ManageToken обязателен для посетителя без аккаунта, для аутентифицированного
// аккаунта достаточно принадлежности записи.
type CancelBookingRequest struct {
	ManageToken *string `json:"manageToken,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	CancelledAt string `json:"cancelledAt"` // ISO 8601
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:          resp.ID,
		Status:      resp.Status,
		CancelledAt: resp.CancelledAt.Format(time.RFC3339),
	}
}
