package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	"github.com/m04kA/NC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/NC-AppointmentService/pkg/psqlbuilder"
)

const (
	constraintActiveSlot     = "uq_appointments_active_slot"
	constraintIdempotencyKey = "uq_appointments_idempotency_key"

	pgUniqueViolation = "23505"
)

// Repository репозиторий для работы с записями на прием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateWithServices создает запись вместе со связями услуг.
//
// Логически это две вставки: заголовок в appointments и строки связей в
// appointment_services. Если в контексте есть активная транзакция (через
// txmanager), обе вставки атомарны и компенсация не нужна. Без транзакции
// действует компенсирующий протокол: при ошибке вставки связей заголовок
// удаляется, чтобы читатели никогда не видели запись без услуг; если
// компенсирующее удаление тоже не удалось, возвращается ErrCompensationFailed.
//
// Доступность слота здесь НЕ проверяется: единственная гарантия — частичный
// уникальный индекс по (date, time) для активных статусов. Его нарушение
// транслируется в ErrSlotTaken, и вызывающая сторона обязана перечитать
// доступность и предложить выбор заново.
func (r *Repository) CreateWithServices(ctx context.Context, appt *domain.Appointment, serviceIDs []int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"date",
			"time",
			"status",
			"duration_minutes",
			"full_name",
			"phone",
			"email",
			"address",
			"idempotency_key",
		).
		Values(
			appt.Date,
			appt.StartTime,
			appt.Status,
			appt.DurationMinutes,
			appt.FullName,
			appt.Phone,
			appt.Email,
			appt.Address,
			appt.IdempotencyKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateWithServices - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, constraintActiveSlot) {
			return nil, ErrSlotTaken
		}
		if isUniqueViolation(err, constraintIdempotencyKey) {
			return nil, ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("%w: CreateWithServices - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	if err := r.insertServiceLinks(ctx, executor, appt.ID, serviceIDs); err != nil {
		// Внутри транзакции откат сделает менеджер; без нее компенсируем сами
		if dbmetrics.IsInTransaction(ctx) {
			return nil, err
		}
		if delErr := r.Delete(ctx, appt.ID); delErr != nil {
			return nil, fmt.Errorf("%w: after link insert error %v: delete failed: %v",
				ErrCompensationFailed, err, delErr)
		}
		return nil, err
	}

	return appt, nil
}

// insertServiceLinks вставляет строки связей услуг одной командой,
// сохраняя порядок выбора через колонку position
func (r *Repository) insertServiceLinks(ctx context.Context, executor DBExecutor, appointmentID int64, serviceIDs []int64) error {
	builder := psqlbuilder.Insert("appointment_services").
		Columns("appointment_id", "service_id", "position")

	for i, serviceID := range serviceIDs {
		builder = builder.Values(appointmentID, serviceID, i)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertServiceLinks - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertServiceLinks - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает запись по ID вместе с упорядоченным списком услуг
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appts, err := r.selectAppointments(ctx, squirrel.Eq{"id": id}, nil, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(appts) == 0 {
		return nil, ErrAppointmentNotFound
	}
	return appts[0], nil
}

// GetByIdempotencyKey получает запись по idempotency key
// Используется коммиттером для идемпотентного повтора
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Appointment, error) {
	appts, err := r.selectAppointments(ctx, squirrel.Eq{"idempotency_key": key}, nil, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(appts) == 0 {
		return nil, ErrAppointmentNotFound
	}
	return appts[0], nil
}

// ListByFilter получает страницу записей по статусу
// Для активных статусов фильтр задает нижнюю границу даты (только предстоящие),
// для терминальных граница не задается — админке нужна и история
func (r *Repository) ListByFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	where := squirrel.And{squirrel.Eq{"status": filter.Status}}
	if filter.FromDate != nil {
		where = append(where, squirrel.GtOrEq{"date": *filter.FromDate})
	}

	orderBy := []string{"date ASC", "time ASC", "id ASC"}
	return r.selectAppointments(ctx, where, orderBy, filter.Limit, filter.Offset)
}

// ActiveSpansByDate возвращает занятые интервалы всех активных записей на дату:
// время начала и суммарную длительность. Вызывающая сторона разворачивает
// каждый интервал во все его ячейки сетки — блокируется весь диапазон записи,
// а не только ячейка ее начала
func (r *Repository) ActiveSpansByDate(ctx context.Context, date time.Time) ([]domain.ActiveSpan, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("time", "duration_minutes").
		From("appointments").
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)}).
		OrderBy("time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ActiveSpansByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveSpansByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	spans := make([]domain.ActiveSpan, 0)
	for rows.Next() {
		var span domain.ActiveSpan
		if err := rows.Scan(&span.StartTime, &span.DurationMinutes); err != nil {
			return nil, fmt.Errorf("%w: ActiveSpansByDate - scan row: %v", ErrScanRow, err)
		}
		spans = append(spans, span)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ActiveSpansByDate - rows error: %v", ErrScanRow, err)
	}

	return spans, nil
}

// UpdateStatus обновляет статус записи одной атомарной командой
// Проверка допустимости перехода выполняется на уровне сервиса
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Delete физически удаляет запись (связи услуг каскадом)
// Используется только компенсирующим протоколом CreateWithServices;
// завершенные и отмененные записи хранятся для истории и не удаляются
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// StatusCounts возвращает количество записей по статусам для дашборда:
// активные статусы считаются от activeFrom (предстоящие), терминальные — за все время
func (r *Repository) StatusCounts(ctx context.Context, activeFrom time.Time) (map[domain.AppointmentStatus]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "COUNT(*)").
		From("appointments").
		Where(squirrel.Or{
			squirrel.And{
				squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)},
				squirrel.GtOrEq{"date": activeFrom},
			},
			squirrel.Eq{"status": statusStrings(domain.TerminalStatuses)},
		}).
		GroupBy("status").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: StatusCounts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: StatusCounts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[domain.AppointmentStatus]int)
	for rows.Next() {
		var status domain.AppointmentStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: StatusCounts - scan row: %v", ErrScanRow, err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: StatusCounts - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// CountByDate возвращает количество записей на конкретную дату (все статусы)
func (r *Repository) CountByDate(ctx context.Context, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("appointments").
		Where(squirrel.Eq{"date": date}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByDate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// selectAppointments общий путь выборки заголовков с догрузкой услуг
func (r *Repository) selectAppointments(
	ctx context.Context,
	where interface{},
	orderBy []string,
	limit, offset int,
) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"date",
		"time",
		"status",
		"duration_minutes",
		"full_name",
		"phone",
		"email",
		"address",
		"idempotency_key",
		"created_at",
		"updated_at",
	).
		From("appointments").
		Where(where)

	for _, o := range orderBy {
		selectBuilder = selectBuilder.OrderBy(o)
	}
	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}
	if offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: selectAppointments - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: selectAppointments - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appts := make([]*domain.Appointment, 0)
	for rows.Next() {
		var appt domain.Appointment
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&appt.ID,
			&appt.Date,
			&appt.StartTime,
			&appt.Status,
			&appt.DurationMinutes,
			&appt.FullName,
			&appt.Phone,
			&appt.Email,
			&appt.Address,
			&appt.IdempotencyKey,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: selectAppointments - scan row: %v", ErrScanRow, err)
		}

		appt.CreatedAt = createdAt.Time
		appt.UpdatedAt = updatedAt.Time

		appts = append(appts, &appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: selectAppointments - rows error: %v", ErrScanRow, err)
	}

	if err := r.attachServices(ctx, executor, appts); err != nil {
		return nil, err
	}

	return appts, nil
}

// attachServices догружает услуги для пачки записей одним запросом,
// сохраняя порядок выбора (position)
func (r *Repository) attachServices(ctx context.Context, executor DBExecutor, appts []*domain.Appointment) error {
	if len(appts) == 0 {
		return nil
	}

	ids := make([]int64, len(appts))
	byID := make(map[int64]*domain.Appointment, len(appts))
	for i, appt := range appts {
		ids[i] = appt.ID
		byID[appt.ID] = appt
	}

	query, args, err := psqlbuilder.Select(
		"aps.appointment_id",
		"s.id",
		"s.name",
		"s.description",
		"s.price_cents",
		"s.duration_mins",
		"s.is_active",
	).
		From("appointment_services aps").
		Join("services s ON s.id = aps.service_id").
		Where(squirrel.Eq{"aps.appointment_id": ids}).
		OrderBy("aps.appointment_id ASC", "aps.position ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID int64
		var svc domain.Service

		err := rows.Scan(
			&appointmentID,
			&svc.ID,
			&svc.Name,
			&svc.Description,
			&svc.PriceCents,
			&svc.DurationMins,
			&svc.IsActive,
		)

		if err != nil {
			return fmt.Errorf("%w: attachServices - scan row: %v", ErrScanRow, err)
		}

		if appt, ok := byID[appointmentID]; ok {
			appt.Services = append(appt.Services, svc)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachServices - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// isUniqueViolation проверяет, что ошибка — нарушение конкретного уникального ограничения
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == pgUniqueViolation && pqErr.Constraint == constraint
}

// statusStrings конвертирует статусы в строки для squirrel.Eq
func statusStrings(statuses []domain.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
