package create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда хотя бы одна выбранная услуга не найдена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrServiceInactive возвращается, когда выбранная услуга отключена
	ErrServiceInactive = errors.New("create_appointment: service is not active")

	// ErrInvalidDate возвращается при некорректной дате записи (прошлое, заблокированный день)
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrInvalidTimeSlot возвращается, когда время начала не лежит на сетке слотов
	// или запись не помещается в рабочие окна дня
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrSlotTaken возвращается, когда выбранный слот уже занят другой активной записью
	ErrSlotTaken = errors.New("create_appointment: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
