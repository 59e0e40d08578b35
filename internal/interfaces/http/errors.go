package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autogest-api/internal/application/dto"
	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// errorTable traduce errores de dominio a HTTP. El orden importa: gana la primera coincidencia.
var errorTable = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", ""},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "credenciales inválidas"},
	{domain.ErrSessionExpired, fiber.StatusUnauthorized, "SESSION_EXPIRED", "sesión inválida o expirada"},
	{domain.ErrTenantSuspended, fiber.StatusForbidden, "TENANT_SUSPENDED", "la empresa está suspendida o bloqueada"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "operación no permitida para este usuario"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrAlreadyRegistered, fiber.StatusConflict, "ALREADY_REGISTERED", "el vehículo ya tiene número RENAVE"},
	{domain.ErrAlreadySold, fiber.StatusConflict, "ALREADY_SOLD", "el vehículo ya fue vendido"},
	{domain.ErrDuplicatePlate, fiber.StatusConflict, "DUPLICATE_PLATE", "la placa ya está registrada"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "el recurso ya existe"},
	{domain.ErrRenderFailed, fiber.StatusUnprocessableEntity, "RENDER_ERROR", ""},
}

// writeError responde con el código estable del error. Los 500 se registran y nunca exponen el detalle.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			msg := m.message
			if msg == "" {
				msg = detail(err, m.err)
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// detail conserva el texto que acompaña al sentinel ("entrada inválida: placa requerida").
func detail(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		return msg[i:]
	}
	return sentinel.Error()
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
