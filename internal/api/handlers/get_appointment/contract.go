package get_appointment

import (
	"context"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/appointments/models"
)

type AppointmentsService interface {
	GetByID(ctx context.Context, id int64, accountID int64) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
