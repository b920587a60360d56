package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/NC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/NC-AppointmentService/pkg/types"
)

// UseCase use case для получения доступных слотов записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	scheduleRepo    ScheduleRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		scheduleRepo:    scheduleRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, services=%v",
		req.Date.Format(domain.DateFormat), req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Разрешаем выбранные услуги и их суммарную длительность
	services, err := uc.catalogRepo.GetByIDs(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: unknown service in %v", req.ServiceIDs)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("GetAvailableSlots: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	if err := validateServicesActive(services); err != nil {
		uc.logger.Warn("GetAvailableSlots: inactive service requested: %v", err)
		return nil, err
	}

	totals := domain.TotalsOf(services)

	// 4. Получаем снимок расписания
	schedule, err := uc.scheduleRepo.GetSchedule(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	// 5. Прошедшие и заблокированные даты, дни без рабочих окон - пустой список,
	// а не ошибка: для витрины это нормальный ответ
	if isDateInPast(req.Date, now) || schedule.IsBlocked(req.Date) {
		uc.logger.Info("GetAvailableSlots: no slots for %s (past or blocked)",
			req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, schedule, totals), nil
	}

	windows := schedule.WindowsFor(req.Date)
	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: no working windows on %s",
			req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, schedule, totals), nil
	}

	// 6. Генерируем сетку ячеек дня
	candidates, err := generateCandidates(windows, schedule.GranularityMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to generate candidates: %v", ErrInternal, err)
	}

	// 7. Получаем занятые интервалы активных записей на дату
	spans, err := uc.appointmentRepo.ActiveSpansByDate(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get active spans: %v", err)
		return nil, fmt.Errorf("%w: failed to get active spans: %v", ErrInternal, err)
	}

	// 8. Отбираем ячейки, вмещающие запись целиком, и убираем уже прошедшие
	slots := filterAvailable(candidates, spans, totals.DurationMins, schedule.GranularityMinutes)
	slots = filterPastSlots(slots, req.Date, now)

	uc.logger.Info("GetAvailableSlots: %d slots for date=%s, duration=%d, granularity=%d",
		len(slots), req.Date.Format(domain.DateFormat), totals.DurationMins, schedule.GranularityMinutes)

	return &Response{
		Date:                 req.Date,
		GranularityMinutes:   schedule.GranularityMinutes,
		TotalDurationMinutes: totals.DurationMins,
		Slots:                slots,
	}, nil
}

func (uc *UseCase) emptyResponse(req *Request, schedule *domain.Schedule, totals domain.ServiceTotals) *Response {
	return &Response{
		Date:                 req.Date,
		GranularityMinutes:   schedule.GranularityMinutes,
		TotalDurationMinutes: totals.DurationMins,
		Slots:                []types.TimeString{},
	}
}
