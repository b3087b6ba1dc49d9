package create_booking

import "errors"

var (
	// ErrTypeNotFound возвращается, когда тип записи не найден
	ErrTypeNotFound = errors.New("create_booking: appointment type not found")

	// ErrTypeInactive возвращается, когда тип записи выключен и недоступен для бронирования
	ErrTypeInactive = errors.New("create_booking: appointment type is inactive")

	// ErrSlotConflict возвращается, когда запрошенный слот уже занят
	// или перестал быть валидным кандидатом к моменту бронирования
	ErrSlotConflict = errors.New("create_booking: slot is no longer available")

	// ErrTooLateToBook возвращается, когда бронирование нарушает минимальный
	// интервал предупреждения аккаунта
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrCalendarUnavailable возвращается, когда занятость внешнего календаря
	// не удалось подтвердить. Путь записи не деградирует: без свежей занятости
	// бронирование отклоняется.
	ErrCalendarUnavailable = errors.New("create_booking: calendar unavailable, booking rejected")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
