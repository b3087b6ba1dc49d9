package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

func echoAccountID(t *testing.T, called *bool, wantID int64) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		accountID, ok := AccountIDFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantID, accountID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth(t *testing.T) {
	t.Run("valid header populates context", func(t *testing.T) {
		called := false
		handler := Auth(nopLogger{})(echoAccountID(t, &called, 42))

		req := httptest.NewRequest(http.MethodGet, "/appointments/1", nil)
		req.Header.Set("X-Account-ID", "42")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		called := false
		handler := Auth(nopLogger{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodGet, "/appointments/1", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		for _, raw := range []string{"abc", "0", "-1"} {
			handler := Auth(nopLogger{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatalf("handler must not be called for header %q", raw)
			}))

			req := httptest.NewRequest(http.MethodGet, "/appointments/1", nil)
			req.Header.Set("X-Account-ID", raw)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", raw)
		}
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Run("absent header passes through without account", func(t *testing.T) {
		called := false
		handler := OptionalAuth(nopLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			_, ok := AccountIDFromContext(r.Context())
			assert.False(t, ok)
		}))

		req := httptest.NewRequest(http.MethodPatch, "/appointments/1/cancel", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.True(t, called)
	})

	t.Run("valid header populates context", func(t *testing.T) {
		called := false
		handler := OptionalAuth(nopLogger{})(echoAccountID(t, &called, 7))

		req := httptest.NewRequest(http.MethodPatch, "/appointments/1/cancel", nil)
		req.Header.Set("X-Account-ID", "7")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.True(t, called)
	})

	t.Run("malformed header is still rejected", func(t *testing.T) {
		handler := OptionalAuth(nopLogger{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not be called")
		}))

		req := httptest.NewRequest(http.MethodPatch, "/appointments/1/cancel", nil)
		req.Header.Set("X-Account-ID", "not-a-number")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAccountIDFromContextWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := AccountIDFromContext(req.Context())
	assert.False(t, ok)
}
