package create_appointment

import (
	"time"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	"github.com/m04kA/NC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
	ServiceIDs []int64          // Выбранные услуги в порядке выбора

	FullName string  // ФИО клиента
	Phone    string  // Телефон клиента
	Email    *string // Email (опционально)
	Address  *string // Адрес (опционально)

	// Ключ идемпотентности, выданный сервером при показе формы.
	// Повторная отправка с тем же ключом возвращает уже созданную запись
	IdempotencyKey *string
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	// Replayed true, если запись не создавалась, а была возвращена
	// по совпавшему ключу идемпотентности
	Replayed bool
}
