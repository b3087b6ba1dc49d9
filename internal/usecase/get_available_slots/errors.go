package get_available_slots

import "errors"

var (
	// ErrTypeNotFound возвращается, когда тип записи не найден
	ErrTypeNotFound = errors.New("get_available_slots: appointment type not found")

	// ErrTypeInactive возвращается, когда тип записи выключен
	ErrTypeInactive = errors.New("get_available_slots: appointment type is inactive")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrCalendarUnavailable возвращается, когда занятость внешнего календаря
	// недоступна и настройки аккаунта запрещают деградацию
	ErrCalendarUnavailable = errors.New("get_available_slots: calendar unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
