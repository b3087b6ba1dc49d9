package calendarservice

import "time"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Calendar подключенный календарь участника команды аккаунта
type Calendar struct {
	ID         string `json:"id"`
	AccountID  int64  `json:"account_id"`
	MemberName string `json:"member_name"`
	Provider   string `json:"provider"` // google | outlook
	IsActive   bool   `json:"is_active"`
}

// BusyInterval занятый интервал из внешнего календаря.
// Непрозрачное стороннее событие: блокирует доступность независимо
// от внутренних записей.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// EventRequest запрос на создание события во внешнем календаре
type EventRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	VisitorName  string    `json:"visitor_name"`
	VisitorEmail string    `json:"visitor_email"`
}

// EventResponse ответ на создание события
type EventResponse struct {
	EventID string `json:"event_id"`
}

// ErrorResponse модель ошибки от CalendarService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
