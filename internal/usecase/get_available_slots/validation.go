package get_available_slots

import (
	"fmt"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AccountID <= 0 {
		return fmt.Errorf("%w: accountID must be positive", ErrInvalidInput)
	}

	if req.AppointmentTypeID <= 0 {
		return fmt.Errorf("%w: appointmentTypeID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}
