package calendarservice

import "errors"

var (
	// ErrCalendarUnavailable возвращается, когда CalendarService недоступен
	// или токен календаря истек. Read-путь может деградировать до пустого
	// набора занятости только по явной настройке аккаунта; путь записи
	// обязан отклонить бронирование (fail closed).
	ErrCalendarUnavailable = errors.New("calendarservice client: calendar unavailable")

	// ErrEventNotFound возвращается, когда событие не найдено при удалении
	ErrEventNotFound = errors.New("calendarservice client: event not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("calendarservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("calendarservice client: invalid response")
)
