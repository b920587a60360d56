package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotTaken возвращается при нарушении частичного уникального индекса
	// (date, time) по активным статусам: слот уже занят другой активной записью
	ErrSlotTaken = errors.New("appointment.repository: slot already taken")

	// ErrDuplicateSubmission возвращается при повторной вставке с тем же idempotency key
	ErrDuplicateSubmission = errors.New("appointment.repository: duplicate submission")

	// ErrCompensationFailed возвращается, когда вставка связей услуг не удалась
	// и компенсирующее удаление заголовка тоже не удалось: в БД осталась
	// осиротевшая запись, требуется вмешательство оператора
	ErrCompensationFailed = errors.New("appointment.repository: compensation failed, orphaned appointment header")

	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("appointment.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
