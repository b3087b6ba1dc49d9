package get_available_dates

import "errors"

var (
	// ErrTypeNotFound возвращается, когда тип записи не найден
	ErrTypeNotFound = errors.New("get_available_dates: appointment type not found")

	// ErrTypeInactive возвращается, когда тип записи выключен
	ErrTypeInactive = errors.New("get_available_dates: appointment type is inactive")

	// ErrCalendarUnavailable возвращается, когда занятость внешнего календаря
	// недоступна и настройки аккаунта запрещают деградацию
	ErrCalendarUnavailable = errors.New("get_available_dates: calendar unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_dates: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_dates: internal error")
)
