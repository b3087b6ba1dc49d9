package create_booking

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	AccountID         int64     // ID аккаунта
	AppointmentTypeID int64     // ID типа записи
	StartTime         time.Time // Начало слота (как вернул список доступных слотов)
	VisitorName       string    // Имя посетителя из формы виджета
	VisitorEmail      string    // Email посетителя
	VisitorPhone      *string   // Телефон посетителя (опционально)
	Notes             *string   // Комментарий посетителя (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID                int64     // ID созданной записи
	AccountID         int64     // ID аккаунта
	AppointmentTypeID int64     // ID типа записи
	StartTime         time.Time // Начало записи
	EndTime           time.Time // Конец записи
	Status            string    // Статус записи

	// ManageToken токен управления: посетитель отменяет запись по нему,
	// не имея аккаунта в системе
	ManageToken string

	VisitorName  string
	VisitorEmail string
	VisitorPhone *string
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
