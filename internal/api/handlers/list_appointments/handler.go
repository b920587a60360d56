package list_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/NC-AppointmentService/internal/api/handlers"
	appointmentsService "github.com/m04kA/NC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/NC-AppointmentService/internal/service/appointments/models"
)

const (
	msgMissingStatus = "статус обязателен"
	msgInvalidStatus = "некорректный статус записи"
	msgInvalidPage   = "некорректный номер страницы"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/appointments
// Query params: status (required), page (optional, default 1)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		h.logger.Warn("GET /admin/appointments - Missing status")
		handlers.RespondBadRequest(w, msgMissingStatus)
		return
	}

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed < 1 {
			h.logger.Warn("GET /admin/appointments - Invalid page: %s", pageStr)
			handlers.RespondBadRequest(w, msgInvalidPage)
			return
		}
		page = parsed
	}

	result, err := h.service.List(r.Context(), &models.ListAppointmentsRequest{
		Status: status,
		Page:   page,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrInvalidStatus):
			h.logger.Warn("GET /admin/appointments - Invalid status: %s", status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /admin/appointments - Failed to list appointments: status=%s, error=%v", status, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/appointments - Appointments retrieved: status=%s, page=%d, count=%d",
		status, page, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
