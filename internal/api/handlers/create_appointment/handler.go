package create_appointment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m04kA/NC-AppointmentService/internal/api/handlers"
	createAppointment "github.com/m04kA/NC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidBody     = "некорректное тело запроса"
	msgInvalidDateTime = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidInput    = "некорректные данные записи"
	msgServiceNotFound = "услуга не найдена"
	msgServiceInactive = "услуга недоступна для записи"
	msgInvalidDate     = "дата недоступна для записи"
	msgInvalidTimeSlot = "выбранное время недоступно"
	msgSlotTaken       = "слот уже занят, выберите другое время"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Invalid date/time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: %v", err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrServiceInactive):
			h.logger.Warn("POST /appointments - Service inactive: %v", err)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid date: %v", err)
			handlers.RespondUnprocessableEntity(w, msgInvalidDate)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: %v", err)
			handlers.RespondUnprocessableEntity(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrSlotTaken):
			h.logger.Warn("POST /appointments - Slot taken: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotTaken)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	// Идемпотентный повтор возвращает уже созданную запись со статусом 200
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /appointments - Appointment created: id=%d, replayed=%v",
		response.ID, result.Replayed)
	handlers.RespondJSON(w, status, response)
}
