package domain

import "github.com/m04kA/NC-AppointmentService/pkg/types"

// RequiredSlots returns how many contiguous grid slots a booking of
// totalDurationMins occupies at the given granularity. Never less than 1,
// so a zero or unresolved duration can never produce a zero-length reservation
func RequiredSlots(totalDurationMins, granularityMins int) int {
	if granularityMins <= 0 {
		return 1
	}
	slots := (totalDurationMins + granularityMins - 1) / granularityMins
	if slots < 1 {
		return 1
	}
	return slots
}

// SpanCells expands a span into every grid cell it occupies, start included.
// Cells running past midnight are dropped rather than wrapped
func SpanCells(start types.TimeString, durationMins, granularityMins int) []types.TimeString {
	slots := RequiredSlots(durationMins, granularityMins)
	cells := make([]types.TimeString, 0, slots)

	cell := start
	for i := 0; i < slots; i++ {
		// "24:00" допустимо как граница окна, но не как начало ячейки
		if cell.Validate() != nil {
			break
		}
		cells = append(cells, cell)
		next, err := cell.AddMinutes(granularityMins)
		if err != nil {
			break
		}
		cell = next
	}
	return cells
}
