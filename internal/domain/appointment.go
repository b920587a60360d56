package domain

import (
	"time"

	"github.com/m04kA/NC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusFinished   AppointmentStatus = "finished"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// Appointment represents a booked visit in the system
type Appointment struct {
	ID              int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Customer identity (bookings are anonymous, no user accounts)
	FullName string
	Phone    string
	Email    *string
	Address  *string

	// Ordered service list; the first entry is the primary service
	// kept for backward-compatible single-service contexts
	Services []Service

	// Server-issued key protecting against duplicate submits
	IdempotencyKey *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// PrimaryService returns the first linked service, or nil if none are loaded
func (a *Appointment) PrimaryService() *Service {
	if len(a.Services) == 0 {
		return nil
	}
	return &a.Services[0]
}

// Totals returns the appointment's summed duration and price over its services
func (a *Appointment) Totals() ServiceTotals {
	return TotalsOf(a.Services)
}

// IsActive returns true for statuses that occupy a slot
func (s AppointmentStatus) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for statuses that free the slot and end the lifecycle
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// IsValid returns true if s is a known status value
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusFinished, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the admin surface may move an appointment
// from s to target. Any active status may move to confirmed, in_progress,
// finished or cancelled (states may be skipped); terminal statuses are
// immutable; pending is never a valid target
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	if !s.IsActive() {
		return false
	}
	switch target {
	case StatusConfirmed, StatusInProgress, StatusFinished, StatusCancelled:
		return true
	default:
		return false
	}
}

// AppointmentsFilter is the filter for admin appointment listings
type AppointmentsFilter struct {
	Status   AppointmentStatus
	FromDate *time.Time // nil = no lower bound (terminal-status history)
	Limit    int
	Offset   int
}
