package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/get_available_slots"
)

type mockUseCase struct {
	resp   *getAvailableSlots.Response
	err    error
	gotReq *getAvailableSlots.Request
}

func (m *mockUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	m.gotReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(uc *mockUseCase, url string) *httptest.ResponseRecorder {
	handler := NewHandler(uc, nopLogger{})

	r := mux.NewRouter()
	r.HandleFunc("/accounts/{accountId}/appointment-types/{typeId}/available-slots", handler.Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleSuccess(t *testing.T) {
	uc := &mockUseCase{
		resp: &getAvailableSlots.Response{
			AccountID:         1,
			AppointmentTypeID: 10,
			Date:              "2026-03-02",
			Timezone:          "Europe/Moscow",
			Slots: []getAvailableSlots.Slot{{
				StartTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			}},
			Cached: true,
		},
	}

	rec := doRequest(uc, "/accounts/1/appointment-types/10/available-slots?date=2026-03-02")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-03-02", body.Date)
	assert.True(t, body.Cached)
	require.Len(t, body.Slots, 1)
	assert.Equal(t, "2026-03-02T09:00:00Z", body.Slots[0].StartTime)

	require.NotNil(t, uc.gotReq)
	assert.Equal(t, int64(1), uc.gotReq.AccountID)
	assert.Equal(t, int64(10), uc.gotReq.AppointmentTypeID)
}

func TestHandleBadInput(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"missing date", "/accounts/1/appointment-types/10/available-slots"},
		{"malformed date", "/accounts/1/appointment-types/10/available-slots?date=02.03.2026"},
		{"non-numeric account id", "/accounts/abc/appointment-types/10/available-slots?date=2026-03-02"},
		{"non-numeric type id", "/accounts/1/appointment-types/abc/available-slots?date=2026-03-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(&mockUseCase{}, tt.url)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleUseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"type not found", getAvailableSlots.ErrTypeNotFound, http.StatusNotFound},
		{"type inactive", getAvailableSlots.ErrTypeInactive, http.StatusNotFound},
		{"invalid input", getAvailableSlots.ErrInvalidInput, http.StatusBadRequest},
		{"calendar unavailable", getAvailableSlots.ErrCalendarUnavailable, http.StatusServiceUnavailable},
		{"internal", getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(&mockUseCase{err: tt.err}, "/accounts/1/appointment-types/10/available-slots?date=2026-03-02")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleCalendarUnavailableRetryAfter(t *testing.T) {
	rec := doRequest(&mockUseCase{err: getAvailableSlots.ErrCalendarUnavailable},
		"/accounts/1/appointment-types/10/available-slots?date=2026-03-02")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestHandleEmptySlots(t *testing.T) {
	uc := &mockUseCase{
		resp: &getAvailableSlots.Response{
			AccountID:         1,
			AppointmentTypeID: 10,
			Date:              "2026-03-02",
			Timezone:          "Europe/Moscow",
		},
	}

	rec := doRequest(uc, "/accounts/1/appointment-types/10/available-slots?date=2026-03-02")
	require.Equal(t, http.StatusOK, rec.Code)

	// Пустой список сериализуется как [], не null
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}
