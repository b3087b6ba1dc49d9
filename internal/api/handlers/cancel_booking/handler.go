package cancel_booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/middleware"
	cancelBooking "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/cancel_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidManageToken   = "некорректный токен управления"
	msgAuthRequired         = "требуется аутентификация или токен управления"
	msgAppointmentNotFound  = "запись не найдена"
	msgAccessDenied         = "нет прав на отмену этой записи"
	msgCannotCancel         = "запись уже отменена или завершена"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/cancel - Invalid appointment id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	// Тело опционально: аккаунту достаточно заголовка аутентификации
	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /appointments/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq := &cancelBooking.Request{
		AppointmentID: appointmentID,
		Reason:        req.Reason,
	}

	if req.ManageToken != nil {
		token, err := uuid.Parse(*req.ManageToken)
		if err != nil {
			h.logger.Warn("PATCH /appointments/cancel - Invalid manage token: %v", err)
			handlers.RespondBadRequest(w, msgInvalidManageToken)
			return
		}
		useCaseReq.ManageToken = &token
	}

	if accountID, ok := middleware.AccountIDFromContext(r.Context()); ok {
		useCaseReq.AccountID = &accountID
	}

	if useCaseReq.ManageToken == nil && useCaseReq.AccountID == nil {
		h.logger.Warn("PATCH /appointments/cancel - No credentials: appointment_id=%d", appointmentID)
		handlers.RespondError(w, http.StatusUnauthorized, msgAuthRequired)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/cancel - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, cancelBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/cancel - Access denied: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)

		case errors.Is(err, cancelBooking.ErrCannotCancel):
			h.logger.Warn("PATCH /appointments/cancel - Cannot cancel: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

		case errors.Is(err, cancelBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/cancel - Invalid input: appointment_id=%d: %v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /appointments/cancel - Failed: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/cancel - Cancelled successfully: appointment_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
