package domain

// Default configuration values
const (
	// DefaultSlotGranularityMinutes is used when booking_settings has no row
	DefaultSlotGranularityMinutes = 30
)

// Business validation constants
const (
	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 480 // 8 hours

	MaxFullNameLength = 200
	MaxPhoneLength    = 32
	MaxEmailLength    = 254
	MaxAddressLength  = 500

	// AdminPageSize is the admin listing page size
	AdminPageSize = 25
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, занимающих слот
// Именно по этому набору построен частичный уникальный индекс (date, time)
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// TerminalStatuses список завершающих статусов (слот освобожден, запись хранится для истории)
var TerminalStatuses = []AppointmentStatus{
	StatusFinished,
	StatusCancelled,
}
