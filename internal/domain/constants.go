package domain

import "time"

// Default configuration values
const (
	DefaultTimezone         = "UTC"
	DefaultMinNoticeMinutes = 60
	DefaultDaysAhead        = 30
)

// Cache TTLs.
// Производные результаты живут дольше: они явно инвалидируются при каждой
// локальной мутации, поэтому длинное окно устаревания безопасно. Внешний
// календарь меняется независимо от нас - его под-кэш ограничен 15 минутами.
const (
	DerivedCacheTTL  = 60 * time.Minute
	CalendarCacheTTL = 15 * time.Minute
	CacheSweepPeriod = 10 * time.Minute
)

// Business validation constants
const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 480 // 8 часов
	MinBufferMinutes   = 0
	MaxBufferMinutes   = 240
	MaxDaysAhead       = 365
	MaxNotesLength     = 500
	MaxReasonLength    = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы записей, занимающих слот на календаре.
// Только отмененные записи освобождают слот.
var ActiveStatuses = []AppointmentStatus{
	StatusConfirmed,
	StatusCompleted,
}
