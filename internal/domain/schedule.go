package domain

import (
	"time"

	"github.com/m04kA/NC-AppointmentService/pkg/types"
)

// AvailabilityWindow is a recurring weekly working window.
// Multiple windows per weekday are allowed and need not be contiguous
type AvailabilityWindow struct {
	ID        int64
	DayOfWeek int // 0 = Sunday .. 6 = Saturday, as time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Schedule is the availability snapshot loaded fresh per request:
// weekly windows, fully blocked dates and the global slot granularity
type Schedule struct {
	Windows            []AvailabilityWindow
	BlockedDates       map[string]struct{} // keys in DateFormat
	GranularityMinutes int
}

// IsBlocked returns true if the given date is fully excluded from booking
func (s *Schedule) IsBlocked(date time.Time) bool {
	_, ok := s.BlockedDates[date.Format(DateFormat)]
	return ok
}

// WindowsFor returns the windows matching the date's weekday
func (s *Schedule) WindowsFor(date time.Time) []AvailabilityWindow {
	dow := int(date.Weekday())
	var out []AvailabilityWindow
	for _, w := range s.Windows {
		if w.DayOfWeek == dow {
			out = append(out, w)
		}
	}
	return out
}

// ActiveSpan is the occupied time span of one active appointment on a date
type ActiveSpan struct {
	StartTime       types.TimeString
	DurationMinutes int
}
