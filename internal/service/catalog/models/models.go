package models

import "github.com/m04kA/NC-AppointmentService/internal/domain"

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	PriceCents   int64   `json:"priceCents"`
	DurationMins int     `json:"durationMins"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
	}

	for _, svc := range services {
		resp.Services = append(resp.Services, ServiceResponse{
			ID:           svc.ID,
			Name:         svc.Name,
			Description:  svc.Description,
			PriceCents:   svc.PriceCents,
			DurationMins: svc.DurationMins,
		})
	}

	return resp
}
