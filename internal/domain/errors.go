package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// "No existe" y "pertenece a otra empresa" comparten ErrNotFound a propósito;
// lo mismo ocurre con "email desconocido" y "password incorrecta" en ErrInvalidCredentials.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrSessionExpired     = errors.New("sesión inválida o expirada")
	ErrTenantSuspended    = errors.New("empresa suspendida o bloqueada")
	ErrDuplicatePlate     = errors.New("la placa ya está registrada")
	ErrAlreadyRegistered  = errors.New("el vehículo ya tiene número RENAVE")
	ErrAlreadySold        = errors.New("el vehículo ya fue vendido")
	ErrRenderFailed       = errors.New("no se pudo generar el documento")
)
