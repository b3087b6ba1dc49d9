package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentTypeOccupiedWindow(t *testing.T) {
	apptType := AppointmentType{
		DurationMinutes:     30,
		BufferBeforeMinutes: 10,
		BufferAfterMinutes:  15,
	}

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	window := apptType.OccupiedWindow(start)

	assert.Equal(t, start.Add(-10*time.Minute), window.Start)
	assert.Equal(t, start.Add(45*time.Minute), window.End)
	assert.Equal(t, 55, apptType.OccupiedMinutes())
	assert.Equal(t, 30*time.Minute, apptType.Duration())
}

func TestAppointmentCanBeCancelled(t *testing.T) {
	tests := []struct {
		status AppointmentStatus
		want   bool
	}{
		{StatusConfirmed, true},
		{StatusCancelled, false},
		{StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			a := Appointment{Status: tt.status}
			assert.Equal(t, tt.want, a.CanBeCancelled())
		})
	}
}
