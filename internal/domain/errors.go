package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInvalidTransition = errors.New("transición de estado inválida")

	// Validación del archivo de carga: se detectan antes de cualquier escritura.
	ErrValidation        = errors.New("archivo inválido")
	ErrUnsupportedFile   = errors.New("solo se aceptan archivos .xlsx o .xlsm")
	ErrFileTooLarge      = errors.New("el archivo supera el tamaño máximo permitido")
	ErrTooManyRows       = errors.New("el archivo supera el número máximo de filas")
	ErrMissingSalesSheet = errors.New("falta la hoja 'Sales Transactions'")

	ErrIngestionBusy = errors.New("ya hay una carga en proceso, intente más tarde")
	ErrUnknownChart  = errors.New("tipo de gráfico inválido")
)

// IsValidation indica si err pertenece a la familia de errores de validación
// del archivo (se devuelven al usuario tal cual).
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrUnsupportedFile) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrTooManyRows) ||
		errors.Is(err, ErrMissingSalesSheet)
}
