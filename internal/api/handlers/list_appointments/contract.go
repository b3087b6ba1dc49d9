package list_appointments

import (
	"context"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/appointments/models"
)

type AppointmentsService interface {
	ListByAccount(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
