package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	"github.com/m04kA/NC-AppointmentService/pkg/types"
)

// generateCandidates генерирует все ячейки сетки слотов на день.
// Внутри каждого рабочего окна ячейки идут от начала окна с фиксированным
// шагом granularity; ячейка допустима, только если целиком помещается в окно.
// Окна одного дня могут не соприкасаться (разрывная сетка) или пересекаться,
// поэтому объединенная сетка сортируется и очищается от дублей
func generateCandidates(windows []domain.AvailabilityWindow, granularity int) ([]types.TimeString, error) {
	candidates := make([]types.TimeString, 0)

	for _, window := range windows {
		current := window.StartTime

		for current.IsBefore(window.EndTime) {
			cellEnd, err := current.AddMinutes(granularity)
			if err != nil {
				return nil, err
			}
			if cellEnd.IsAfter(window.EndTime) {
				break
			}

			candidates = append(candidates, current)
			current = cellEnd
		}
	}

	return mergeCandidates(candidates), nil
}

// mergeCandidates возвращает строго возрастающую сетку без дублей
func mergeCandidates(candidates []types.TimeString) []types.TimeString {
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Minutes() < candidates[j].Minutes()
	})

	merged := candidates[:0]
	for i, c := range candidates {
		if i == 0 || c != candidates[i-1] {
			merged = append(merged, c)
		}
	}
	return merged
}

// filterAvailable отбирает ячейки, с которых может начаться запись суммарной
// длительности totalDuration. Старт допустим, только если ВСЕ requiredSlots
// последовательных ячеек существуют в сетке (запись не вылезает за окно и не
// перепрыгивает разрыв между окнами) и ни одна из них не занята активной записью.
//
// Занятость считается по полному диапазону каждой активной записи: запись на
// 60 минут при шаге 30 закрывает и ячейку своего начала, и следующую
func filterAvailable(
	candidates []types.TimeString,
	spans []domain.ActiveSpan,
	totalDuration int,
	granularity int,
) []types.TimeString {
	candidateSet := make(map[types.TimeString]struct{}, len(candidates))
	for _, c := range candidates {
		candidateSet[c] = struct{}{}
	}

	booked := make(map[types.TimeString]struct{})
	for _, span := range spans {
		for _, cell := range domain.SpanCells(span.StartTime, span.DurationMinutes, granularity) {
			booked[cell] = struct{}{}
		}
	}

	required := domain.RequiredSlots(totalDuration, granularity)

	available := make([]types.TimeString, 0, len(candidates))
	for _, start := range candidates {
		if spanFits(start, required, granularity, candidateSet, booked) {
			available = append(available, start)
		}
	}

	return available
}

// spanFits проверяет, что все ячейки записи, начинающейся в start, существуют и свободны
func spanFits(
	start types.TimeString,
	required int,
	granularity int,
	candidateSet map[types.TimeString]struct{},
	booked map[types.TimeString]struct{},
) bool {
	cell := start
	for i := 0; i < required; i++ {
		if _, ok := candidateSet[cell]; !ok {
			return false
		}
		if _, ok := booked[cell]; ok {
			return false
		}

		next, err := cell.AddMinutes(granularity)
		if err != nil {
			// Следующая ячейка уходит за полночь; допустимо только если она уже не нужна
			return i == required-1
		}
		cell = next
	}
	return true
}

// filterPastSlots для сегодняшней даты убирает ячейки, время которых уже прошло
func filterPastSlots(slots []types.TimeString, date time.Time, now time.Time) []types.TimeString {
	if !isSameDay(date, now) {
		return slots
	}

	currentTime := types.NewTimeString(now)

	filtered := make([]types.TimeString, 0, len(slots))
	for _, slot := range slots {
		if slot.IsAfter(currentTime) {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
