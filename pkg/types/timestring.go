package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// timeLayout формат времени HH:MM (24 часа)
const timeLayout = "15:04"

// ErrInvalidTimeString возвращается при некорректном формате строки времени
var ErrInvalidTimeString = errors.New("invalid time string format, expected HH:MM")

// TimeString время суток в формате "HH:MM" без привязки к дате и таймзоне.
// Используется для хранения границ рабочего дня и времени начала слотов.
type TimeString string

// NewTimeString создает TimeString из time.Time (отбрасывает дату и секунды)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" и валидирует её
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return NewTimeString(t), nil
}

// MinutesFromMidnight возвращает количество минут с полуночи
func (ts TimeString) MinutesFromMidnight() (int, error) {
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return t.Hour()*60 + t.Minute(), nil
}

// IsZero возвращает true для пустого значения
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// Validate проверяет корректность формата
func (ts TimeString) Validate() error {
	_, err := ts.MinutesFromMidnight()
	return err
}

// OnDate проецирует время суток на календарную дату в указанной таймзоне
func (ts TimeString) OnDate(date time.Time, loc *time.Location) (time.Time, error) {
	minutes, err := ts.MinutesFromMidnight()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, loc), nil
}

// String реализует fmt.Stringer
func (ts TimeString) String() string {
	return string(ts)
}

// Value реализует driver.Valuer для записи в БД
func (ts TimeString) Value() (driver.Value, error) {
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return string(ts), nil
}

// Scan реализует sql.Scanner для чтения из БД.
// Postgres может вернуть колонку TIME как "HH:MM:SS" - обрезаем секунды.
func (ts *TimeString) Scan(src interface{}) error {
	if src == nil {
		*ts = ""
		return nil
	}

	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidTimeString, src)
	}

	if len(s) > 5 {
		s = s[:5]
	}

	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}

	*ts = parsed
	return nil
}
