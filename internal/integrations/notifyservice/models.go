package notifyservice

import "time"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// BookingEmail структурированные данные для email о бронировании.
// Содержимое шаблонов живет в NotifyService - отсюда уходят только данные.
type BookingEmail struct {
	AccountID       int64     `json:"account_id"`
	AppointmentID   int64     `json:"appointment_id"`
	AppointmentName string    `json:"appointment_name"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Timezone        string    `json:"timezone"`
	VisitorName     string    `json:"visitor_name"`
	VisitorEmail    string    `json:"visitor_email"`
	ManageToken     string    `json:"manage_token"`
	CancelReason    *string   `json:"cancel_reason,omitempty"`
}
