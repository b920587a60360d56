package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/NC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/NC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями на прием (админская поверхность)
type Service struct {
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// List получает страницу записей по статусу.
// Активные статусы показывают только предстоящие записи (дата >= сегодня),
// терминальные - всю историю. Сортировка: дата, время, id по возрастанию
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments status=%s, page=%d", req.Status, req.Page)

	status, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("List: invalid status=%s", req.Status)
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidStatus, req.Status)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	filter := domain.AppointmentsFilter{
		Status: status,
		// Запрашиваем на одну запись больше, чтобы узнать, есть ли следующая страница
		Limit:  domain.AdminPageSize + 1,
		Offset: (page - 1) * domain.AdminPageSize,
	}

	if status.IsActive() {
		today := dateOnly(s.timeProvider.Now())
		filter.FromDate = &today
	}

	appointments, err := s.appointmentRepo.ListByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	hasMore := len(appointments) > domain.AdminPageSize
	if hasMore {
		appointments = appointments[:domain.AdminPageSize]
	}

	s.logger.Info("List: fetched %d appointments status=%s, page=%d, hasMore=%v",
		len(appointments), req.Status, page, hasMore)

	return models.FromDomainAppointmentList(appointments, page, domain.AdminPageSize, hasMore), nil
}

// UpdateStatus переводит запись в новый статус.
//
// Правила переходов: любой активный статус может перейти в confirmed,
// in_progress, finished или cancelled (этапы можно пропускать); терминальные
// статусы неизменяемы; pending не бывает целью перехода. Повторный перевод
// в тот же терминальный статус тоже отклоняется - запись уже закрыта
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d -> status=%s", id, req.Status)

	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive", ErrInvalidInput)
	}

	target, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidStatus, req.Status)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if !appt.Status.CanTransitionTo(target) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for appointment id=%d",
			appt.Status, target, id)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, target)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, target); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: failed to update appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	appt.Status = target
	s.logger.Info("UpdateStatus: appointment id=%d moved to %s", id, target)

	return models.FromDomainAppointment(appt), nil
}

// Dashboard собирает сводку для админской панели: счетчики по статусам
// (активные - только предстоящие, терминальные - за все время) и
// количество записей на сегодня
func (s *Service) Dashboard(ctx context.Context) (*models.DashboardResponse, error) {
	s.logger.Info("Dashboard: building summary")

	today := dateOnly(s.timeProvider.Now())

	counts, err := s.appointmentRepo.StatusCounts(ctx, today)
	if err != nil {
		s.logger.Error("Dashboard: failed to get status counts: %v", err)
		return nil, fmt.Errorf("%w: Dashboard - repository error: %v", ErrInternal, err)
	}

	todayTotal, err := s.appointmentRepo.CountByDate(ctx, today)
	if err != nil {
		s.logger.Error("Dashboard: failed to count today's appointments: %v", err)
		return nil, fmt.Errorf("%w: Dashboard - repository error: %v", ErrInternal, err)
	}

	statusCounts := make(map[string]int, 5)
	for _, status := range append(domain.ActiveStatuses, domain.TerminalStatuses...) {
		statusCounts[string(status)] = counts[status]
	}

	return &models.DashboardResponse{
		StatusCounts: statusCounts,
		TodayTotal:   todayTotal,
	}, nil
}

// dateOnly обнуляет время, оставляя только дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
