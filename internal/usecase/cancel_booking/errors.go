package cancel_booking

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("cancel_booking: appointment not found")

	// ErrAccessDenied возвращается, когда ни аккаунт, ни токен управления
	// не дают права отменить запись
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrCannotCancel возвращается, когда запись уже отменена или завершена
	ErrCannotCancel = errors.New("cancel_booking: appointment cannot be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
