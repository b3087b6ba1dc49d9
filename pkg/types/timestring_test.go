package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeString
		wantErr bool
	}{
		{"09:00", "09:00", false},
		{"00:00", "00:00", false},
		{"23:59", "23:59", false},
		// Парсер time.Parse допускает час без ведущего нуля и нормализует его
		{"9:00", "09:00", false},
		{"24:00", "", true},
		{"09:60", "", true},
		{"hello", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeStringMinutesFromMidnight(t *testing.T) {
	minutes, err := TimeString("09:30").MinutesFromMidnight()
	require.NoError(t, err)
	assert.Equal(t, 570, minutes)

	_, err = TimeString("bad").MinutesFromMidnight()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeStringOnDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	got, err := TimeString("09:30").OnDate(date, loc)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 2, 9, 30, 0, 0, loc), got)
}

func TestTimeStringScan(t *testing.T) {
	t.Run("string with seconds", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan("09:30:00"))
		assert.Equal(t, TimeString("09:30"), ts)
	})

	t.Run("bytes", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan([]byte("17:00")))
		assert.Equal(t, TimeString("17:00"), ts)
	})

	t.Run("nil", func(t *testing.T) {
		var ts TimeString
		require.NoError(t, ts.Scan(nil))
		assert.True(t, ts.IsZero())
	})

	t.Run("unsupported type", func(t *testing.T) {
		var ts TimeString
		assert.ErrorIs(t, ts.Scan(42), ErrInvalidTimeString)
	})
}

func TestTimeStringValue(t *testing.T) {
	v, err := TimeString("09:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "09:00", v)

	_, err = TimeString("nope").Value()
	assert.Error(t, err)
}
