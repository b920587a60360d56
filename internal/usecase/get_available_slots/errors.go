package get_available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда хотя бы одна запрошенная услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceInactive возвращается, когда запрошенная услуга отключена
	ErrServiceInactive = errors.New("service is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
