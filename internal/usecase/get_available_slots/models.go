package get_available_slots

import (
	"time"

	"github.com/m04kA/NC-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Date       time.Time // Дата для получения слотов (без времени)
	ServiceIDs []int64   // Выбранные услуги; слот должен вмещать их суммарную длительность
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date                 time.Time          // Дата, на которую запрашивались слоты
	GranularityMinutes   int                // Шаг сетки слотов
	TotalDurationMinutes int                // Суммарная длительность выбранных услуг
	Slots                []types.TimeString // Времена начала доступных слотов, по возрастанию
}
