package get_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/middleware"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgUnauthorized         = "требуется аутентификация"
	msgAppointmentNotFound  = "запись не найдена"
	msgAccessDenied         = "нет доступа к этой записи"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid appointment id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments - Missing account in context: appointment_id=%d", appointmentID)
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	result, err := h.service.GetByID(r.Context(), appointmentID, accountID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("GET /appointments - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments - Access denied: appointment_id=%d, account_id=%d", appointmentID, accountID)
			handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)

		default:
			h.logger.Error("GET /appointments - Failed: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments - Fetched successfully: appointment_id=%d, account_id=%d", appointmentID, accountID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
