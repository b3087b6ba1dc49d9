package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	createBooking "github.com/avdeevsm/SWB-AvailabilityService/internal/usecase/create_booking"
)

type mockUseCase struct {
	resp   *createBooking.Response
	err    error
	gotReq *createBooking.Request
}

func (m *mockUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
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

func doRequest(uc *mockUseCase, body string) *httptest.ResponseRecorder {
	handler := NewHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	return rec
}

func validBody() string {
	return `{
		"accountId": 1,
		"appointmentTypeId": 10,
		"startTime": "2026-03-03T10:00:00Z",
		"visitorName": "Ivan Petrov",
		"visitorEmail": "ivan@example.com"
	}`
}

func TestHandleCreated(t *testing.T) {
	uc := &mockUseCase{
		resp: &createBooking.Response{
			ID:                100,
			AccountID:         1,
			AppointmentTypeID: 10,
			StartTime:         time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
			EndTime:           time.Date(2026, 3, 3, 11, 0, 0, 0, time.UTC),
			Status:            "confirmed",
			ManageToken:       "7b0d31de-90a2-4a63-9d2c-17a6f0b8e81a",
			VisitorName:       "Ivan Petrov",
			VisitorEmail:      "ivan@example.com",
		},
	}

	rec := doRequest(uc, validBody())

	require.Equal(t, http.StatusCreated, rec.Code)

	var body BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(100), body.ID)
	assert.Equal(t, "confirmed", body.Status)
	assert.Equal(t, "7b0d31de-90a2-4a63-9d2c-17a6f0b8e81a", body.ManageToken)
	assert.Equal(t, "2026-03-03T10:00:00Z", body.StartTime)

	require.NotNil(t, uc.gotReq)
	assert.Equal(t, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), uc.gotReq.StartTime)
}

func TestHandleBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"broken json", "{"},
		{"unknown field", `{"accountId": 1, "surprise": true}`},
		{"malformed start time", `{
			"accountId": 1,
			"appointmentTypeId": 10,
			"startTime": "03.03.2026 10:00",
			"visitorName": "Ivan",
			"visitorEmail": "ivan@example.com"
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := doRequest(uc, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.gotReq)
		})
	}
}

func TestHandleUseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"slot conflict", createBooking.ErrSlotConflict, http.StatusConflict},
		{"type not found", createBooking.ErrTypeNotFound, http.StatusNotFound},
		{"type inactive", createBooking.ErrTypeInactive, http.StatusNotFound},
		{"too late to book", createBooking.ErrTooLateToBook, http.StatusBadRequest},
		{"calendar unavailable", createBooking.ErrCalendarUnavailable, http.StatusServiceUnavailable},
		{"invalid input", createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"internal", createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(&mockUseCase{err: tt.err}, validBody())
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleConflictMessage(t *testing.T) {
	rec := doRequest(&mockUseCase{err: createBooking.ErrSlotConflict}, validBody())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, msgSlotConflict, body["error"])
}
