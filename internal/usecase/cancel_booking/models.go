package cancel_booking

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на отмену записи.
// Авторизация по одному из двух путей: AccountID владеющего аккаунта
// (защищенный admin-путь) либо ManageToken из письма посетителя.
type Request struct {
	AppointmentID int64      // ID записи
	AccountID     *int64     // ID аккаунта (admin-путь, опционально)
	ManageToken   *uuid.UUID // Токен управления (путь посетителя, опционально)
	Reason        string     // Причина отмены (опционально)
}

// Response модель ответа с отмененной записью
type Response struct {
	ID          int64     // ID записи
	Status      string    // Новый статус (cancelled)
	CancelledAt time.Time // Время отмены
}
