package domain

import "time"

// Service represents a bookable care service from the catalog
type Service struct {
	ID           int64
	Name         string
	Description  *string
	PriceCents   int64 // price in minor currency units
	DurationMins int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ServiceTotals is the computed aggregate over an appointment's services.
// There is exactly one code path producing it (no optional totals view)
type ServiceTotals struct {
	DurationMins int
	PriceCents   int64
}

// TotalsOf sums duration and price over the given services
func TotalsOf(services []Service) ServiceTotals {
	var t ServiceTotals
	for _, s := range services {
		t.DurationMins += s.DurationMins
		t.PriceCents += s.PriceCents
	}
	return t
}
