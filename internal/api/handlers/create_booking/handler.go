package create_booking

import (
	"errors"
	"net/http"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers"
	createBooking "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartTime   = "некорректный формат времени начала, ожидается ISO 8601"
	msgTypeNotFound       = "тип записи не найден"
	msgSlotConflict       = "выбранный слот уже занят, обновите список слотов"
	msgTooLateToBook      = "слишком поздно для бронирования этого слота"
	msgCalendarUnavailble = "календарь временно недоступен, повторите запрос позже"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: account_id=%d, type_id=%d, start=%s",
				req.AccountID, req.AppointmentTypeID, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createBooking.ErrTypeNotFound),
			errors.Is(err, createBooking.ErrTypeInactive):
			h.logger.Warn("POST /bookings - Type not found: account_id=%d, type_id=%d",
				req.AccountID, req.AppointmentTypeID)
			handlers.RespondNotFound(w, msgTypeNotFound)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: account_id=%d, start=%s",
				req.AccountID, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrCalendarUnavailable):
			h.logger.Warn("POST /bookings - Calendar unavailable: account_id=%d", req.AccountID)
			w.Header().Set("Retry-After", "60")
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCalendarUnavailble)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: account_id=%d: %v", req.AccountID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: account_id=%d, type_id=%d, error=%v",
				req.AccountID, req.AppointmentTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: appointment_id=%d, account_id=%d",
		result.ID, req.AccountID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
