package cache

// Kind домен кэшируемых данных.
// Производные результаты (dates, slots) инвалидируются при каждой локальной
// мутации и живут дольше; сырые занятые интервалы внешних календарей (busy)
// меняются независимо от нас и живут коротко.
type Kind string

const (
	// KindDates список доступных дат на горизонт daysAhead
	KindDates Kind = "dates"

	// KindSlots список доступных слотов на конкретную дату
	KindSlots Kind = "slots"

	// KindBusy занятые интервалы внешних календарей на конкретную дату
	KindBusy Kind = "busy"
)

// Key структурный составной ключ кэша.
// Сравнимый struct вместо склейки строк: исключает коллизии и ошибки парсинга,
// сохраняя то же разбиение по (аккаунт, тип записи, дата).
type Key struct {
	Kind              Kind
	AccountID         int64
	AppointmentTypeID int64  // 0 для KindBusy
	Date              string // YYYY-MM-DD, пусто для KindDates
	DaysAhead         int    // только для KindDates
}

// DatesKey ключ для списка доступных дат
func DatesKey(accountID, appointmentTypeID int64, daysAhead int) Key {
	return Key{
		Kind:              KindDates,
		AccountID:         accountID,
		AppointmentTypeID: appointmentTypeID,
		DaysAhead:         daysAhead,
	}
}

// SlotsKey ключ для списка слотов на дату
func SlotsKey(accountID, appointmentTypeID int64, date string) Key {
	return Key{
		Kind:              KindSlots,
		AccountID:         accountID,
		AppointmentTypeID: appointmentTypeID,
		Date:              date,
	}
}

// BusyKey ключ для занятых интервалов внешних календарей на дату
func BusyKey(accountID int64, date string) Key {
	return Key{
		Kind:      KindBusy,
		AccountID: accountID,
		Date:      date,
	}
}
