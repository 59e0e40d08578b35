package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autogest-api/internal/application/dto"
	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

func respond(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return writeError(c, logger.Nop(), err) })
	resp, rerr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, rerr)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWriteError_Tabla(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: placa requerida", domain.ErrInvalidInput), 400, "VALIDATION"},
		{domain.ErrInvalidCredentials, 401, "INVALID_CREDENTIALS"},
		{domain.ErrSessionExpired, 401, "SESSION_EXPIRED"},
		{domain.ErrTenantSuspended, 403, "TENANT_SUSPENDED"},
		{domain.ErrForbidden, 403, "FORBIDDEN"},
		{fmt.Errorf("vehicle: %w", domain.ErrNotFound), 404, "NOT_FOUND"},
		{domain.ErrAlreadyRegistered, 409, "ALREADY_REGISTERED"},
		{domain.ErrAlreadySold, 409, "ALREADY_SOLD"},
		{domain.ErrDuplicatePlate, 409, "DUPLICATE_PLATE"},
		{domain.ErrEmailAlreadyExists, 409, "EMAIL_EXISTS"},
		{domain.ErrDuplicate, 409, "DUPLICATE"},
		{fmt.Errorf("%w: faltan campos obligatorios: plate", domain.ErrRenderFailed), 422, "RENDER_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			status, body := respond(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestWriteError_ConservaDetalleDeValidacion(t *testing.T) {
	_, body := respond(t, fmt.Errorf("vehicle: %w", fmt.Errorf("%w: placa requerida", domain.ErrInvalidInput)))
	assert.Equal(t, "entrada inválida: placa requerida", body.Message)
}

func TestWriteError_InternoNoExponeDetalle(t *testing.T) {
	status, body := respond(t, errors.New("pgx: password authentication failed for user autogest"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "pgx")
}
