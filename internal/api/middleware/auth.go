package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/avdeevsm/SWB-AvailabilityService/internal/api/handlers"
)

// accountIDHeader заголовок с ID аккаунта, проставляется доверенным
// upstream-шлюзом после проверки сессии. Сервис сам сессии не проверяет.
const accountIDHeader = "X-Account-ID"

const msgUnauthorized = "требуется аутентификация"

type ctxKey struct{}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth извлекает ID аккаунта из заголовка доверенного шлюза и кладет его
// в контекст запроса. Запросы без валидного заголовка отклоняются.
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(accountIDHeader)
			if raw == "" {
				logger.Warn("%s %s - Missing %s header", r.Method, r.URL.Path, accountIDHeader)
				handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			accountID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || accountID <= 0 {
				logger.Warn("%s %s - Invalid %s header: %q", r.Method, r.URL.Path, accountIDHeader, raw)
				handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth кладет ID аккаунта в контекст, если заголовок присутствует
// и валиден, но не отклоняет запросы без него. Для маршрутов, доступных
// и аккаунту, и посетителю с токеном управления.
func OptionalAuth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(accountIDHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			accountID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || accountID <= 0 {
				logger.Warn("%s %s - Invalid %s header: %q", r.Method, r.URL.Path, accountIDHeader, raw)
				handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountIDFromContext возвращает ID аккаунта, положенный Auth middleware
func AccountIDFromContext(ctx context.Context) (int64, bool) {
	accountID, ok := ctx.Value(ctxKey{}).(int64)
	return accountID, ok
}
