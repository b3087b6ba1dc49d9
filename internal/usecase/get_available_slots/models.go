package get_available_slots

import (
	"time"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	AccountID         int64     // ID аккаунта
	AppointmentTypeID int64     // ID типа записи
	Date              time.Time // Календарный день в таймзоне аккаунта
}

// Response модель ответа со списком доступных слотов
type Response struct {
	AccountID         int64  // ID аккаунта
	AppointmentTypeID int64  // ID типа записи
	Date              string // Дата в формате YYYY-MM-DD
	Timezone          string // Таймзона аккаунта (IANA)
	Slots             []Slot // Упорядоченный список доступных слотов
	Cached            bool   // Результат взят из кэша
}

// Slot модель доступного слота
type Slot struct {
	StartTime time.Time // Начало слота
	EndTime   time.Time // Конец слота
}
