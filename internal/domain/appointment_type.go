package domain

import "time"

// AppointmentType represents a bookable service offered by an account.
// duration + bufferBefore + bufferAfter определяют окно, которое запись
// занимает на календаре.
type AppointmentType struct {
	ID                  int64
	AccountID           int64
	Name                string
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	IsActive            bool
	Price               *float64
	Currency            *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// OccupiedMinutes returns the total calendar minutes one appointment of this
// type excludes, buffers included
func (t *AppointmentType) OccupiedMinutes() int {
	return t.BufferBeforeMinutes + t.DurationMinutes + t.BufferAfterMinutes
}

// OccupiedWindow проецирует буферы на интервал записи: окно, которое
// бронирование с началом start занимает на календаре
func (t *AppointmentType) OccupiedWindow(start time.Time) Interval {
	from := start.Add(-time.Duration(t.BufferBeforeMinutes) * time.Minute)
	return Interval{Start: from, End: from.Add(time.Duration(t.OccupiedMinutes()) * time.Minute)}
}

// Duration returns the appointment duration as time.Duration
func (t *AppointmentType) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}
