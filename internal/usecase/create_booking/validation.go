package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AccountID <= 0 {
		return fmt.Errorf("%w: accountID must be positive", ErrInvalidInput)
	}

	if req.AppointmentTypeID <= 0 {
		return fmt.Errorf("%w: appointmentTypeID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.VisitorName)
	if name == "" {
		return fmt.Errorf("%w: visitorName is required", ErrInvalidInput)
	}

	if err := validateEmail(req.VisitorEmail); err != nil {
		return err
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateEmail минимальная структурная проверка email.
// Настоящая проверка адреса происходит письмом с подтверждением,
// здесь отсеиваем только очевидный мусор.
func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: visitorEmail is required", ErrInvalidInput)
	}

	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("%w: visitorEmail is malformed", ErrInvalidInput)
	}

	return nil
}

// validateNotice проверяет, что бронирование не нарушает минимальный
// интервал предупреждения аккаунта
func validateNotice(startTime time.Time, now time.Time, minNoticeMinutes int) error {
	notBefore := now.Add(time.Duration(minNoticeMinutes) * time.Minute)
	if startTime.Before(notBefore) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minNoticeMinutes)
	}
	return nil
}
