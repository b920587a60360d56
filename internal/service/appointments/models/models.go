package models

import (
	"errors"
	"time"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// ListAppointmentsRequest запрос на получение страницы записей по статусу
type ListAppointmentsRequest struct {
	Status string `json:"status"`
	Page   int    `json:"page"` // Нумерация с 1
}

// UpdateStatusRequest запрос на обновление статуса записи
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// ServiceResponse услуга в составе записи
type ServiceResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"priceCents"`
	DurationMins int    `json:"durationMins"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	Date            string `json:"date"`      // "2025-10-15"
	StartTime       string `json:"startTime"` // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	FullName string  `json:"fullName"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email,omitempty"`
	Address  *string `json:"address,omitempty"`

	Services        []ServiceResponse `json:"services"`
	TotalPriceCents int64             `json:"totalPriceCents"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со страницей записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"pageSize"`
	HasMore      bool                  `json:"hasMore"`
}

// DashboardResponse сводка для админской панели
type DashboardResponse struct {
	StatusCounts map[string]int `json:"statusCounts"`
	TodayTotal   int            `json:"todayTotal"`
}

// Методы конвертации

// ToDomainStatus конвертирует строку в domain статус
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	status := domain.AppointmentStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	services := make([]ServiceResponse, 0, len(a.Services))
	for _, svc := range a.Services {
		services = append(services, ServiceResponse{
			ID:           svc.ID,
			Name:         svc.Name,
			PriceCents:   svc.PriceCents,
			DurationMins: svc.DurationMins,
		})
	}

	return &AppointmentResponse{
		ID:              a.ID,
		Date:            a.Date.Format(domain.DateFormat),
		StartTime:       a.StartTime.String(),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		FullName:        a.FullName,
		Phone:           a.Phone,
		Email:           a.Email,
		Address:         a.Address,
		Services:        services,
		TotalPriceCents: a.Totals().PriceCents,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует страницу domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, page, pageSize int, hasMore bool) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
		Page:         page,
		PageSize:     pageSize,
		HasMore:      hasMore,
	}

	for _, a := range appointments {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}

	return resp
}
