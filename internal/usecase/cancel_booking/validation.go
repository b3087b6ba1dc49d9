package cancel_booking

import (
	"fmt"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	// Должен быть указан хотя бы один путь авторизации
	if req.ManageToken == nil && req.AccountID == nil {
		return fmt.Errorf("%w: either manageToken or accountID is required", ErrInvalidInput)
	}

	// Без токена запись ищется по ID
	if req.ManageToken == nil && req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.AccountID != nil && *req.AccountID <= 0 {
		return fmt.Errorf("%w: accountID must be positive", ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	return nil
}
