package create_appointment

import (
	"time"

	"github.com/m04kA/NC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/NC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/NC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	Date       string  `json:"date"`      // "2025-10-15"
	StartTime  string  `json:"startTime"` // "10:00"
	ServiceIDs []int64 `json:"serviceIds"`

	FullName string  `json:"fullName"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email,omitempty"`
	Address  *string `json:"address,omitempty"`

	IdempotencyKey *string `json:"idempotencyKey,omitempty"`
}

// AppointmentService услуга в составе записи
type AppointmentService struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"priceCents"`
	DurationMins int    `json:"durationMins"`
}

// CreateAppointmentResponse HTTP response model
type CreateAppointmentResponse struct {
	ID              int64  `json:"id"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	FullName string  `json:"fullName"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email,omitempty"`
	Address  *string `json:"address,omitempty"`

	Services        []AppointmentService `json:"services"`
	TotalPriceCents int64                `json:"totalPriceCents"`

	CreatedAt time.Time `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в запрос use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		Date:           date,
		StartTime:      startTime,
		ServiceIDs:     r.ServiceIDs,
		FullName:       r.FullName,
		Phone:          r.Phone,
		Email:          r.Email,
		Address:        r.Address,
		IdempotencyKey: r.IdempotencyKey,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *CreateAppointmentResponse {
	appt := resp.Appointment

	services := make([]AppointmentService, 0, len(appt.Services))
	for _, svc := range appt.Services {
		services = append(services, AppointmentService{
			ID:           svc.ID,
			Name:         svc.Name,
			PriceCents:   svc.PriceCents,
			DurationMins: svc.DurationMins,
		})
	}

	return &CreateAppointmentResponse{
		ID:              appt.ID,
		Date:            appt.Date.Format(domain.DateFormat),
		StartTime:       appt.StartTime.String(),
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		FullName:        appt.FullName,
		Phone:           appt.Phone,
		Email:           appt.Email,
		Address:         appt.Address,
		Services:        services,
		TotalPriceCents: appt.Totals().PriceCents,
		CreatedAt:       appt.CreatedAt,
	}
}
