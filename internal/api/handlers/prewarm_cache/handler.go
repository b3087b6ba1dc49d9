package prewarm_cache

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers"
	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/middleware"
	prewarmCache "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/prewarm_cache"
)

const (
	msgInvalidAccountID = "некорректный ID аккаунта"
	msgInvalidDaysAhead = "некорректный параметр daysAhead"
	msgUnauthorized     = "требуется аутентификация"
	msgAccessDenied     = "нет доступа к кэшу этого аккаунта"
)

// PrewarmAcceptedResponse HTTP response model
type PrewarmAcceptedResponse struct {
	Status string `json:"status"`
}

type Handler struct {
	useCase PrewarmCacheUseCase
	logger  Logger
}

func NewHandler(useCase PrewarmCacheUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/accounts/{accountId}/cache/prewarm
// Прогрев выполняется в фоне, ответ возвращается немедленно.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(mux.Vars(r)["accountId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /cache/prewarm - Invalid account id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAccountID)
		return
	}

	authAccountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.logger.Warn("POST /cache/prewarm - Missing account in context: account_id=%d", accountID)
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	if authAccountID != accountID {
		h.logger.Warn("POST /cache/prewarm - Access denied: account_id=%d, auth_account_id=%d", accountID, authAccountID)
		handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)
		return
	}

	daysAhead := 0
	if raw := r.URL.Query().Get("daysAhead"); raw != "" {
		daysAhead, err = strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("POST /cache/prewarm - Invalid daysAhead: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidDaysAhead)
			return
		}
	}

	err = h.useCase.Execute(r.Context(), &prewarmCache.Request{
		AccountID: accountID,
		DaysAhead: daysAhead,
	})
	if err != nil {
		switch {
		case errors.Is(err, prewarmCache.ErrInvalidInput):
			h.logger.Warn("POST /cache/prewarm - Invalid input: account_id=%d: %v", accountID, err)
			handlers.RespondBadRequest(w, msgInvalidDaysAhead)

		default:
			h.logger.Error("POST /cache/prewarm - Failed: account_id=%d, error=%v", accountID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /cache/prewarm - Prewarm started: account_id=%d", accountID)
	handlers.RespondJSON(w, http.StatusAccepted, PrewarmAcceptedResponse{Status: "accepted"})
}
