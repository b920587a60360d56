package catalog

import (
	"context"
	"fmt"

	"github.com/m04kA/NC-AppointmentService/internal/service/catalog/models"
)

// Service сервис каталога услуг
type Service struct {
	catalogRepo CatalogRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(catalogRepo CatalogRepository, logger Logger) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// ListActive возвращает все активные услуги, отсортированные по имени
func (s *Service) ListActive(ctx context.Context) (*models.ServiceListResponse, error) {
	services, err := s.catalogRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListActive: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListActive: fetched %d services", len(services))
	return models.FromDomainServiceList(services), nil
}
