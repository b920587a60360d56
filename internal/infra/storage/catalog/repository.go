package catalog

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	"github.com/m04kA/NC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/NC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с каталогом услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListActive возвращает все активные услуги, отсортированные по имени
func (r *Repository) ListActive(ctx context.Context) ([]domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := serviceSelect().
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan row: %v", ErrScanRow, err)
		}
		services = append(services, svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetByIDs возвращает услуги по списку идентификаторов, сохраняя порядок
// входного списка. Неактивные услуги тоже возвращаются: проверка активности —
// ответственность вызывающей стороны, которой нужно отличить "не существует"
// от "существует, но отключена". Если хотя бы один ID не найден,
// возвращается ErrServiceNotFound.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Service, error) {
	if len(ids) == 0 {
		return []domain.Service{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := serviceSelect().
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	byID := make(map[int64]domain.Service, len(ids))
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByIDs - scan row: %v", ErrScanRow, err)
		}
		byID[svc.ID] = svc
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - rows error: %v", ErrScanRow, err)
	}

	services := make([]domain.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: GetByIDs - id %d", ErrServiceNotFound, id)
		}
		services = append(services, svc)
	}

	return services, nil
}

func serviceSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"name",
		"description",
		"price_cents",
		"duration_mins",
		"is_active",
		"created_at",
		"updated_at",
	).From("services")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (domain.Service, error) {
	var svc domain.Service
	err := row.Scan(
		&svc.ID,
		&svc.Name,
		&svc.Description,
		&svc.PriceCents,
		&svc.DurationMins,
		&svc.IsActive,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	)
	return svc, err
}
