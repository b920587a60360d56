package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/NC-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/NC-AppointmentService/internal/infra/storage/catalog"
)

// UseCase use case для создания записи на прием
type UseCase struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	scheduleRepo    ScheduleRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		scheduleRepo:    scheduleRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
//
// Доступность слота здесь не перечитывается перед вставкой: между проверкой и
// коммитом всегда есть окно гонки, поэтому единственный арбитр конфликта -
// частичный уникальный индекс по (date, time) для активных статусов.
// Нарушение индекса транслируется в ErrSlotTaken, и клиенту предлагается
// выбрать слот заново
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: date=%s, time=%s, services=%v",
		req.Date.Format(domain.DateFormat), req.StartTime, req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Идемпотентный повтор: та же форма уже была отправлена раньше
	if req.IdempotencyKey != nil {
		existing, err := uc.appointmentRepo.GetByIdempotencyKey(ctx, *req.IdempotencyKey)
		if err == nil {
			uc.logger.Info("CreateAppointment: idempotent replay, returning appointment id=%d", existing.ID)
			return &Response{Appointment: existing, Replayed: true}, nil
		}
		if !errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Error("CreateAppointment: failed to check idempotency key: %v", err)
			return nil, fmt.Errorf("%w: failed to check idempotency key: %v", ErrInternal, err)
		}
	}

	// 3. Получаем текущее время
	now := uc.timeProvider.Now()

	// 4. Разрешаем выбранные услуги; длительность и цена берутся только из каталога
	services, err := uc.catalogRepo.GetByIDs(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: unknown service in %v", req.ServiceIDs)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("CreateAppointment: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	if err := validateServicesActive(services); err != nil {
		uc.logger.Warn("CreateAppointment: inactive service requested: %v", err)
		return nil, err
	}

	totals := domain.TotalsOf(services)

	// 5. Получаем снимок расписания и проверяем дату
	schedule, err := uc.scheduleRepo.GetSchedule(ctx)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CreateAppointment: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: date is in the past", ErrInvalidDate)
	}

	if schedule.IsBlocked(req.Date) {
		uc.logger.Warn("CreateAppointment: date %s is blocked", req.Date.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: date is not available for booking", ErrInvalidDate)
	}

	// 6. Проверяем, что время лежит на сетке и запись помещается в рабочие окна
	if err := validateSlot(schedule, req.Date, req.StartTime, totals.DurationMins); err != nil {
		uc.logger.Warn("CreateAppointment: slot validation failed: %v", err)
		return nil, err
	}

	appt := &domain.Appointment{
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: totals.DurationMins,
		Status:          domain.StatusPending,
		FullName:        strings.TrimSpace(req.FullName),
		Phone:           strings.TrimSpace(req.Phone),
		Email:           req.Email,
		Address:         req.Address,
		Services:        services,
		IdempotencyKey:  req.IdempotencyKey,
	}

	// 7. Создаем запись и связи услуг в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := uc.appointmentRepo.CreateWithServices(txCtx, appt, req.ServiceIDs)
		if err != nil {
			return err
		}
		appt = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrSlotTaken):
			uc.logger.Warn("CreateAppointment: slot %s %s already taken",
				req.Date.Format(domain.DateFormat), req.StartTime)
			return nil, ErrSlotTaken
		case errors.Is(err, appointmentRepo.ErrDuplicateSubmission):
			// Гонка двух одинаковых отправок: вторая возвращает запись первой
			return uc.replayAfterDuplicate(ctx, req)
		default:
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", appt.ID)

	return &Response{Appointment: appt}, nil
}

// replayAfterDuplicate достает запись, созданную конкурентной отправкой того же ключа
func (uc *UseCase) replayAfterDuplicate(ctx context.Context, req *Request) (*Response, error) {
	if req.IdempotencyKey == nil {
		return nil, fmt.Errorf("%w: duplicate submission without idempotency key", ErrInternal)
	}

	existing, err := uc.appointmentRepo.GetByIdempotencyKey(ctx, *req.IdempotencyKey)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to load duplicate appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to load duplicate appointment: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateAppointment: concurrent duplicate, returning appointment id=%d", existing.ID)
	return &Response{Appointment: existing, Replayed: true}, nil
}
