package get_dashboard

import (
	"net/http"

	"github.com/m04kA/NC-AppointmentService/internal/api/handlers"
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

// Handle GET /api/v1/admin/dashboard
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/dashboard - Failed to build dashboard: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/dashboard - Dashboard retrieved: todayTotal=%d", result.TodayTotal)
	handlers.RespondJSON(w, http.StatusOK, result)
}
