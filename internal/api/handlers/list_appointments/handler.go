package list_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/middleware"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/domain"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/appointments"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/service/appointments/models"
)

const (
	msgInvalidAccountID = "некорректный ID аккаунта"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidFilter    = "некорректные параметры фильтрации"
	msgUnauthorized     = "требуется аутентификация"
	msgAccessDenied     = "нет доступа к записям этого аккаунта"
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

// Handle GET /api/v1/accounts/{accountId}/appointments
//
// Query параметры:
//   - startDate, endDate: период (YYYY-MM-DD)
//   - status: фильтр по статусу
//   - includeCancelled: включить отмененные записи
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(mux.Vars(r)["accountId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid account id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	authAccountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments - Missing account in context: account_id=%d", accountID)
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	if authAccountID != accountID {
		h.logger.Warn("GET /appointments - Access denied: account_id=%d, auth_account_id=%d", accountID, authAccountID)
		handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)
		return
	}

	req := &models.ListAppointmentsRequest{AccountID: accountID}

	query := r.URL.Query()
	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid startDate: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &startDate
	}
	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid endDate: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &endDate
	}
	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}
	if query.Get("includeCancelled") == "true" {
		req.IncludeCancelled = true
	}

	result, err := h.service.ListByAccount(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments - Invalid filter: account_id=%d: %v", accountID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /appointments - Failed: account_id=%d, error=%v", accountID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments - %d appointments returned: account_id=%d", len(result.Appointments), accountID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
