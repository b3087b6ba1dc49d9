package get_available_dates

// Request модель запроса на получение доступных дат
type Request struct {
	AccountID         int64 // ID аккаунта
	AppointmentTypeID int64 // ID типа записи
	DaysAhead         int   // Горизонт в днях (0 - использовать настройку аккаунта)
}

// Response модель ответа со списком доступных дат
type Response struct {
	AccountID         int64    // ID аккаунта
	AppointmentTypeID int64    // ID типа записи
	Timezone          string   // Таймзона аккаунта (IANA)
	DaysAhead         int      // Фактически использованный горизонт
	Dates             []string // Даты с хотя бы одним доступным слотом (YYYY-MM-DD)
	Cached            bool     // Результат взят из кэша
}
