package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	getAvailableSlots "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/get_available_slots"
)

const (
	msgInvalidAccountID   = "некорректный ID аккаунта"
	msgInvalidTypeID      = "некорректный ID типа записи"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgTypeNotFound       = "тип записи не найден"
	msgCalendarUnavailble = "календарь временно недоступен, повторите запрос позже"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/accounts/{accountId}/appointment-types/{typeId}/available-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	accountID, err := strconv.ParseInt(vars["accountId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid account id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	typeID, err := strconv.ParseInt(vars["typeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid type id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		AccountID:         accountID,
		AppointmentTypeID: typeID,
		Date:              date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTypeNotFound),
			errors.Is(err, getAvailableSlots.ErrTypeInactive):
			h.logger.Warn("GET /available-slots - Type not found: account_id=%d, type_id=%d", accountID, typeID)
			handlers.RespondNotFound(w, msgTypeNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput),
			errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /available-slots - Invalid input: account_id=%d, type_id=%d: %v", accountID, typeID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrCalendarUnavailable):
			h.logger.Warn("GET /available-slots - Calendar unavailable: account_id=%d", accountID)
			w.Header().Set("Retry-After", "60")
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCalendarUnavailble)

		default:
			h.logger.Error("GET /available-slots - Failed: account_id=%d, type_id=%d, error=%v", accountID, typeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - %d slots returned: account_id=%d, type_id=%d, date=%s, cached=%t",
		len(result.Slots), accountID, typeID, result.Date, result.Cached)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
