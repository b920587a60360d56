package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	"github.com/m04kA/NC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/NC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с рабочим расписанием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListWindows возвращает все рабочие окна недельного расписания
func (r *Repository) ListWindows(ctx context.Context) ([]domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "day_of_week", "start_time", "end_time").
		From("availability").
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]domain.AvailabilityWindow, 0)
	for rows.Next() {
		var w domain.AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.DayOfWeek, &w.StartTime, &w.EndTime); err != nil {
			return nil, fmt.Errorf("%w: ListWindows - scan row: %v", ErrScanRow, err)
		}
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWindows - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}

// ListBlockedDates возвращает множество заблокированных дат
func (r *Repository) ListBlockedDates(ctx context.Context) (map[string]struct{}, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date").
		From("blocked_dates").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocked := make(map[string]struct{})
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("%w: ListBlockedDates - scan row: %v", ErrScanRow, err)
		}
		blocked[date.Format(domain.DateFormat)] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - rows error: %v", ErrScanRow, err)
	}

	return blocked, nil
}

// GetSlotGranularity возвращает шаг сетки слотов из настроек бронирования.
// Если строка настроек отсутствует, действует шаг по умолчанию
func (r *Repository) GetSlotGranularity(ctx context.Context) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_granularity_minutes").
		From("booking_settings").
		Limit(1).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: GetSlotGranularity - build select query: %v", ErrBuildQuery, err)
	}

	var granularity int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&granularity)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultSlotGranularityMinutes, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetSlotGranularity - scan row: %v", ErrScanRow, err)
	}

	return granularity, nil
}

// GetSchedule собирает полный снимок расписания: окна, заблокированные даты и шаг сетки
func (r *Repository) GetSchedule(ctx context.Context) (*domain.Schedule, error) {
	windows, err := r.ListWindows(ctx)
	if err != nil {
		return nil, err
	}

	blocked, err := r.ListBlockedDates(ctx)
	if err != nil {
		return nil, err
	}

	granularity, err := r.GetSlotGranularity(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Schedule{
		Windows:            windows,
		BlockedDates:       blocked,
		GranularityMinutes: granularity,
	}, nil
}
