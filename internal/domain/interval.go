package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidInterval возвращается при попытке создать интервал с start >= end
var ErrInvalidInterval = errors.New("interval: start must be before end")

// Interval полуоткрытый временной интервал [Start, End).
// Инвариант Start < End гарантируется конструктором; все операции ниже
// предполагают корректные интервалы.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval создает интервал, проверяя инвариант Start < End.
// Некорректный интервал - ошибка в момент создания, а не тихое
// игнорирование дальше по цепочке вычислений.
func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// Duration возвращает длительность интервала
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Contains возвращает true, если момент t попадает в [Start, End)
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Overlaps возвращает true, если интервалы действительно пересекаются.
// Интервалы полуоткрытые: соприкосновение границ (a.End == b.Start)
// пересечением не считается.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Covers возвращает true, если other целиком лежит внутри i
func (i Interval) Covers(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// MergeIntervals сливает произвольный набор интервалов в минимальный
// отсортированный набор непересекающихся интервалов.
// Соприкасающиеся интервалы (end == start) объединяются в один.
// Покрытое множество моментов времени не меняется.
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return []Interval{}
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start.Before(sorted[b].Start)
	})

	merged := make([]Interval, 0, len(sorted))
	current := sorted[0]

	for _, next := range sorted[1:] {
		if !next.Start.After(current.End) {
			// Пересекаются или соприкасаются - расширяем текущий
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}

	return append(merged, current)
}

// SubtractIntervals вычитает занятые интервалы из базовых.
// Возвращает свободные интервалы: моменты, покрытые base, но не покрытые busy.
// Результат отсортирован и не пересекается ни с одним интервалом из busy.
func SubtractIntervals(base, busy []Interval) []Interval {
	mergedBusy := MergeIntervals(busy)
	free := make([]Interval, 0, len(base))

	for _, open := range MergeIntervals(base) {
		cursor := open.Start

		for _, b := range mergedBusy {
			if !b.End.After(cursor) {
				continue
			}
			if !b.Start.Before(open.End) {
				break
			}
			if b.Start.After(cursor) {
				free = append(free, Interval{Start: cursor, End: b.Start})
			}
			if b.End.After(cursor) {
				cursor = b.End
			}
		}

		if cursor.Before(open.End) {
			free = append(free, Interval{Start: cursor, End: open.End})
		}
	}

	return free
}
