package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidState       = errors.New("estado inválido para la operación")
	ErrRetryLimit         = errors.New("límite de reintentos alcanzado")
	ErrFileRejected       = errors.New("archivo rechazado: tipo o tamaño no permitido")
	ErrGroupInactive      = errors.New("grupo inactivo")
)
