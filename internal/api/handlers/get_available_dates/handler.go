package get_available_dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers"
	getAvailableDates "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/get_available_dates"
)

const (
	msgInvalidAccountID   = "некорректный ID аккаунта"
	msgInvalidTypeID      = "некорректный ID типа записи"
	msgInvalidDaysAhead   = "некорректный параметр daysAhead"
	msgTypeNotFound       = "тип записи не найден"
	msgCalendarUnavailble = "календарь временно недоступен, повторите запрос позже"
)

type Handler struct {
	useCase GetAvailableDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/accounts/{accountId}/appointment-types/{typeId}/available-dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	accountID, err := strconv.ParseInt(vars["accountId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-dates - Invalid account id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	typeID, err := strconv.ParseInt(vars["typeId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-dates - Invalid type id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTypeID)
		return
	}

	daysAhead := 0
	if raw := r.URL.Query().Get("daysAhead"); raw != "" {
		daysAhead, err = strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /available-dates - Invalid daysAhead: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidDaysAhead)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableDates.Request{
		AccountID:         accountID,
		AppointmentTypeID: typeID,
		DaysAhead:         daysAhead,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableDates.ErrTypeNotFound),
			errors.Is(err, getAvailableDates.ErrTypeInactive):
			h.logger.Warn("GET /available-dates - Type not found: account_id=%d, type_id=%d", accountID, typeID)
			handlers.RespondNotFound(w, msgTypeNotFound)

		case errors.Is(err, getAvailableDates.ErrInvalidInput):
			h.logger.Warn("GET /available-dates - Invalid input: account_id=%d, type_id=%d: %v", accountID, typeID, err)
			handlers.RespondBadRequest(w, msgInvalidDaysAhead)

		case errors.Is(err, getAvailableDates.ErrCalendarUnavailable):
			h.logger.Warn("GET /available-dates - Calendar unavailable: account_id=%d", accountID)
			w.Header().Set("Retry-After", "60")
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCalendarUnavailble)

		default:
			h.logger.Error("GET /available-dates - Failed: account_id=%d, type_id=%d, error=%v", accountID, typeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-dates - %d dates returned: account_id=%d, type_id=%d, cached=%t",
		len(result.Dates), accountID, typeID, result.Cached)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
