package get_available_slots

import (
	"fmt"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate service id %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// validateServicesActive проверяет, что все выбранные услуги активны
func validateServicesActive(services []domain.Service) error {
	for _, svc := range services {
		if !svc.IsActive {
			return fmt.Errorf("%w: service id %d", ErrServiceInactive, svc.ID)
		}
	}
	return nil
}
