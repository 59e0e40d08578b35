package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autogest-api/internal/application/dto"
	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

// LocalCaller clave de c.Locals donde queda el llamador resuelto.
const LocalCaller = "caller"

// CallerResolver resuelve un token al usuario autenticado. Lo implementa *auth.AuthUseCase.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (*entity.Caller, error)
}

// AuthMiddleware valida el Bearer Token y resuelve el llamador contra la base en cada petición,
// de modo que suspender una empresa tiene efecto inmediato.
func AuthMiddleware(resolver CallerResolver, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		caller, err := resolver.ResolveCaller(c.UserContext(), tokenString)
		if err != nil {
			return writeError(c, log, err)
		}
		c.Locals(LocalCaller, *caller)
		return c.Next()
	}
}

// RequireOperation corta con 403 si el rol del llamador no tiene la capacidad.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireOperation(op entity.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := GetCaller(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "no autenticado"})
		}
		if !caller.Allows(op) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: domain.ErrForbidden.Error()})
		}
		return c.Next()
	}
}

// GetCaller devuelve el llamador del contexto (después del middleware de auth).
func GetCaller(c *fiber.Ctx) (entity.Caller, bool) {
	caller, ok := c.Locals(LocalCaller).(entity.Caller)
	return caller, ok
}
