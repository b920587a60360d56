package create_appointment

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	"github.com/m04kA/NC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
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

	if err := validateCustomerFields(req); err != nil {
		return err
	}

	if req.IdempotencyKey != nil {
		if _, err := uuid.Parse(*req.IdempotencyKey); err != nil {
			return fmt.Errorf("%w: idempotency key must be a valid UUID", ErrInvalidInput)
		}
	}

	return nil
}

// validateCustomerFields проверяет контактные данные клиента
func validateCustomerFields(req *Request) error {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return fmt.Errorf("%w: fullName is required", ErrInvalidInput)
	}
	if len(fullName) > domain.MaxFullNameLength {
		return fmt.Errorf("%w: fullName is too long (max %d)", ErrInvalidInput, domain.MaxFullNameLength)
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}
	if len(phone) > domain.MaxPhoneLength {
		return fmt.Errorf("%w: phone is too long (max %d)", ErrInvalidInput, domain.MaxPhoneLength)
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" {
			if len(email) > domain.MaxEmailLength {
				return fmt.Errorf("%w: email is too long (max %d)", ErrInvalidInput, domain.MaxEmailLength)
			}
			if !strings.Contains(email, "@") {
				return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
			}
		}
	}

	if req.Address != nil && len(*req.Address) > domain.MaxAddressLength {
		return fmt.Errorf("%w: address is too long (max %d)", ErrInvalidInput, domain.MaxAddressLength)
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

// validateSlot проверяет, что время начала лежит на сетке дня и что запись
// суммарной длительности totalDuration целиком помещается в рабочие окна.
// Это предварительная проверка удобства: настоящую гарантию от двойного
// бронирования дает уникальный индекс на уровне хранилища
func validateSlot(
	schedule *domain.Schedule,
	date time.Time,
	start types.TimeString,
	totalDuration int,
) error {
	windows := schedule.WindowsFor(date)
	if len(windows) == 0 {
		return fmt.Errorf("%w: no working hours on %s", ErrInvalidTimeSlot, date.Format(domain.DateFormat))
	}

	candidates, err := generateCandidates(windows, schedule.GranularityMinutes)
	if err != nil {
		return fmt.Errorf("%w: failed to build slot grid: %v", ErrInternal, err)
	}

	candidateSet := make(map[types.TimeString]struct{}, len(candidates))
	for _, c := range candidates {
		candidateSet[c] = struct{}{}
	}

	if _, ok := candidateSet[start]; !ok {
		return fmt.Errorf("%w: %s is not on the slot grid", ErrInvalidTimeSlot, start)
	}

	required := domain.RequiredSlots(totalDuration, schedule.GranularityMinutes)
	cells := domain.SpanCells(start, totalDuration, schedule.GranularityMinutes)
	if len(cells) < required {
		return fmt.Errorf("%w: appointment does not fit working hours", ErrInvalidTimeSlot)
	}
	for _, cell := range cells {
		if _, ok := candidateSet[cell]; !ok {
			return fmt.Errorf("%w: appointment does not fit working hours", ErrInvalidTimeSlot)
		}
	}

	return nil
}

// generateCandidates генерирует ячейки сетки для рабочих окон дня.
// Ячейка допустима, только если целиком помещается в окно; окна могут
// пересекаться, поэтому объединенная сетка сортируется и очищается от дублей
func generateCandidates(windows []domain.AvailabilityWindow, granularity int) ([]types.TimeString, error) {
	candidates := make([]types.TimeString, 0)

	for _, window := range windows {
		current := window.StartTime

		for current.IsBefore(window.EndTime) {
			cellEnd, err := current.AddMinutes(granularity)
			if err != nil {
				return nil, err
			}
			if cellEnd.IsAfter(window.EndTime) {
				break
			}

			candidates = append(candidates, current)
			current = cellEnd
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Minutes() < candidates[j].Minutes()
	})

	merged := candidates[:0]
	for i, c := range candidates {
		if i == 0 || c != candidates[i-1] {
			merged = append(merged, c)
		}
	}
	return merged, nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
