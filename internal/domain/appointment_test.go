package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatus_IsActive(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.True(t, StatusInProgress.IsActive())
	assert.False(t, StatusFinished.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, AppointmentStatus("unknown").IsActive())
}

func TestAppointmentStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusFinished.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	active := []AppointmentStatus{StatusPending, StatusConfirmed, StatusInProgress}
	targets := []AppointmentStatus{StatusConfirmed, StatusInProgress, StatusFinished, StatusCancelled}

	// Любой активный статус может перейти в любой из четырех целевых,
	// в том числе с пропуском этапов (pending -> finished)
	for _, from := range active {
		for _, to := range targets {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s must be allowed", from, to)
		}
	}

	// pending никогда не бывает целью перехода
	for _, from := range active {
		assert.False(t, from.CanTransitionTo(StatusPending), "%s -> pending must be rejected", from)
	}

	// Терминальные статусы неизменяемы, включая повтор того же статуса
	for _, from := range []AppointmentStatus{StatusFinished, StatusCancelled} {
		for _, to := range []AppointmentStatus{StatusPending, StatusConfirmed, StatusInProgress, StatusFinished, StatusCancelled} {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s must be rejected", from, to)
		}
	}

	// Неизвестный целевой статус отклоняется
	assert.False(t, StatusConfirmed.CanTransitionTo(AppointmentStatus("done")))
}

func TestAppointment_Totals(t *testing.T) {
	appt := &Appointment{
		Services: []Service{
			{ID: 1, PriceCents: 5000, DurationMins: 30},
			{ID: 2, PriceCents: 7500, DurationMins: 45},
		},
	}

	totals := appt.Totals()
	assert.Equal(t, 75, totals.DurationMins)
	assert.Equal(t, int64(12500), totals.PriceCents)
}

func TestAppointment_PrimaryService(t *testing.T) {
	appt := &Appointment{
		Services: []Service{
			{ID: 7, Name: "Осмотр"},
			{ID: 9, Name: "Перевязка"},
		},
	}

	primary := appt.PrimaryService()
	assert.NotNil(t, primary)
	assert.Equal(t, int64(7), primary.ID)

	empty := &Appointment{}
	assert.Nil(t, empty.PrimaryService())
}
