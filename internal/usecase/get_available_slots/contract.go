package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ActiveSpansByDate получает занятые интервалы всех активных записей на дату
	ActiveSpansByDate(ctx context.Context, date time.Time) ([]domain.ActiveSpan, error)
}

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	// GetByIDs получает услуги по списку идентификаторов, сохраняя порядок
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Service, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	// GetSchedule получает снимок расписания: окна, заблокированные даты, шаг сетки
	GetSchedule(ctx context.Context) (*domain.Schedule, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
