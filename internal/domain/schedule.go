package domain

import (
	"time"

	"github.com/avdeevsm/SWB-AvailabilityService/pkg/types"
)

// WeeklyRule еженедельное правило доступности владельца аккаунта.
// На один день недели может существовать несколько правил - резолвер
// обязан обработать ноль и более совпадений и слить пересечения.
// Правила создаются и редактируются в настройках (внешний CRUD),
// для ядра расписания они read-only.
type WeeklyRule struct {
	ID          int64
	AccountID   int64
	DayOfWeek   time.Weekday
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DateOverride переопределение доступности на конкретную календарную дату.
// Если override существует, он ПОЛНОСТЬЮ заменяет действие еженедельных
// правил на эту дату (никакого слияния).
// Инвариант: при IsAvailable = true поля StartTime и EndTime обязательны
// и StartTime < EndTime; гарантируется валидацией на записи (внешний CRUD).
type DateOverride struct {
	ID          int64
	AccountID   int64
	Date        time.Time // календарный день, компонент времени игнорируется
	IsAvailable bool
	StartTime   *types.TimeString
	EndTime     *types.TimeString
	Reason      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AvailabilitySettings настройки расписания аккаунта
type AvailabilitySettings struct {
	AccountID int64

	// Timezone таймзона владельца (IANA, например "Europe/Moscow").
	// Все правила и overrides интерпретируются в ней - никогда в UTC
	// и никогда в локальной зоне сервера.
	Timezone string

	// MinNoticeMinutes минимальное время до начала слота при бронировании
	MinNoticeMinutes int

	// DaysAhead горизонт бронирования в днях
	DaysAhead int

	// CalendarSyncEnabled подключен ли внешний календарь.
	// Если подключен, путь записи обязан проверить занятость во внешнем
	// календаре и при его недоступности отклонить бронирование (fail closed).
	CalendarSyncEnabled bool

	// DegradeOnCalendarError разрешает read-пути считать внешний календарь
	// пустым при его недоступности. На путь записи не влияет.
	DegradeOnCalendarError bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location возвращает *time.Location таймзоны аккаунта
func (s *AvailabilitySettings) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}
