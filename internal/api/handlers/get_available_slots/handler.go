package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/NC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/NC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/NC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingServiceIDs = "список услуг обязателен"
	msgInvalidServiceIDs = "некорректный список услуг, ожидается serviceIds=1,2,3"
	msgServiceNotFound   = "услуга не найдена"
	msgServiceInactive   = "услуга недоступна для записи"
	msgInvalidInput      = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots
// Query params: date (required, YYYY-MM-DD), serviceIds (required, "1,2,3")
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	serviceIDsStr := r.URL.Query().Get("serviceIds")
	if serviceIDsStr == "" {
		h.logger.Warn("GET /available-slots - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, serviceIDsStr)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /available-slots - Service not found: %v", err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			h.logger.Warn("GET /available-slots - Service inactive: %v", err)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			// Витрина слотов - справочная поверхность: при недоступности
			// хранилища отдаем пустой список вместо 500, бронирование
			// при этом никогда так не деградирует
			h.logger.Error("GET /available-slots - Degraded to empty slots: date=%s, error=%v", dateStr, err)
			handlers.RespondJSON(w, http.StatusOK, &AvailableSlotsResponse{
				Date:               dateStr,
				GranularityMinutes: domain.DefaultSlotGranularityMinutes,
				Slots:              []string{},
			})
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /available-slots - Slots retrieved successfully: date=%s, slots_count=%d",
		dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
