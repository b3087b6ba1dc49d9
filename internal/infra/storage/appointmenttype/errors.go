package appointmenttype

import "errors"

var (
	// ErrTypeNotFound возвращается, когда тип записи не найден
	ErrTypeNotFound = errors.New("appointmenttype.repository: appointment type not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointmenttype.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointmenttype.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointmenttype.repository: failed to scan row")
)
