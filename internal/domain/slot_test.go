package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/NC-AppointmentService/pkg/types"
)

func TestRequiredSlots(t *testing.T) {
	tests := []struct {
		name        string
		duration    int
		granularity int
		want        int
	}{
		{name: "exact single slot", duration: 30, granularity: 30, want: 1},
		{name: "exact two slots", duration: 60, granularity: 30, want: 2},
		{name: "partial slot rounds up", duration: 45, granularity: 30, want: 2},
		{name: "75 minutes at 30", duration: 75, granularity: 30, want: 3},
		{name: "zero duration still reserves one slot", duration: 0, granularity: 30, want: 1},
		{name: "duration shorter than slot", duration: 10, granularity: 30, want: 1},
		{name: "degenerate granularity", duration: 60, granularity: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiredSlots(tt.duration, tt.granularity))
		})
	}
}

func TestRequiredSlots_Monotone(t *testing.T) {
	// Большая длительность никогда не требует меньше ячеек
	prev := 0
	for duration := 0; duration <= 240; duration += 5 {
		got := RequiredSlots(duration, 30)
		assert.GreaterOrEqual(t, got, prev, "duration=%d", duration)
		prev = got
	}
}

func TestSpanCells(t *testing.T) {
	// Запись на 60 минут при шаге 30 занимает две ячейки
	cells := SpanCells(types.TimeString("09:00"), 60, 30)
	assert.Equal(t, []types.TimeString{"09:00", "09:30"}, cells)

	// 45 минут округляются вверх до двух ячеек
	cells = SpanCells(types.TimeString("10:00"), 45, 30)
	assert.Equal(t, []types.TimeString{"10:00", "10:30"}, cells)

	// Одна ячейка
	cells = SpanCells(types.TimeString("12:00"), 30, 30)
	assert.Equal(t, []types.TimeString{"12:00"}, cells)

	// Ячейки за полночь отбрасываются
	cells = SpanCells(types.TimeString("23:30"), 90, 30)
	assert.Equal(t, []types.TimeString{"23:30"}, cells)
}
