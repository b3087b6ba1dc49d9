package availability

import "errors"

var (
	// ErrInvalidTimezone возвращается, когда таймзона аккаунта не распознана
	ErrInvalidTimezone = errors.New("availability: invalid account timezone")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
