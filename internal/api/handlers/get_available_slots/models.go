package get_available_slots

import (
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/NC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date                 string   `json:"date"`
	GranularityMinutes   int      `json:"granularityMinutes"`
	TotalDurationMinutes int      `json:"totalDurationMinutes"`
	Slots                []string `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = slot.String()
	}

	return &AvailableSlotsResponse{
		Date:                 resp.Date.Format(domain.DateFormat),
		GranularityMinutes:   resp.GranularityMinutes,
		TotalDurationMinutes: resp.TotalDurationMinutes,
		Slots:                slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(dateStr, serviceIDsStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	serviceIDs, err := parseServiceIDs(serviceIDsStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		Date:       date,
		ServiceIDs: serviceIDs,
	}, nil
}

// parseServiceIDs разбирает список ID услуг из строки вида "1,2,3"
func parseServiceIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
