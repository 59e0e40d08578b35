package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autogest-api/internal/domain/entity"
	apphttp "github.com/jhoicas/autogest-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/vehicles", "", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decode(t, body)["code"])
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/vehicles", "Token abc", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decode(t, body)["code"])
}

func TestAuthMiddleware_TokenInvalido_SesionExpirada(t *testing.T) {
	env := newTestEnv(t)
	for _, header := range []string{"Bearer token.invalido.aqui", env.bearer(t, "borrado@autogest.test")} {
		resp, body := env.do(t, http.MethodGet, "/api/vehicles", header, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "SESSION_EXPIRED", decode(t, body)["code"])
	}
}

func TestAuthMiddleware_EmpresaSuspendida_Retorna403(t *testing.T) {
	env := newTestEnv(t)
	header := env.bearer(t, emailOpA)

	resp, _ := env.do(t, http.MethodGet, "/api/vehicles", header, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, env.companies.UpdateStatus(context.Background(), companyA, entity.CompanyStatusBlocked, nil))
	resp, body := env.do(t, http.MethodGet, "/api/vehicles", header, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "TENANT_SUSPENDED", decode(t, body)["code"])

	// el MASTER no depende del estado de ninguna empresa
	resp, _ = env.do(t, http.MethodGet, "/api/vehicles", env.bearer(t, emailMaster), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireOperation
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireOperation_OperadorBloqueadoEnEmpresas(t *testing.T) {
	env := newTestEnv(t)
	header := env.bearer(t, emailOpA)

	for _, path := range []string{"/api/companies", "/api/companies/" + companyA + "/users"} {
		resp, body := env.do(t, http.MethodGet, path, header, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		assert.Equal(t, "FORBIDDEN", decode(t, body)["code"])
	}
	resp, _ := env.do(t, http.MethodPost, "/api/users", header, map[string]string{"email": "x@y.z", "password": testPassword})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireOperation_MasterAccedeEmpresas(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/companies", env.bearer(t, emailMaster), nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, ok := decode(t, body)["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestGetCaller_SinMiddleware(t *testing.T) {
	env := newTestEnv(t)
	env.app.Get("/sin-auth", func(c *fiber.Ctx) error {
		_, ok := apphttp.GetCaller(c)
		return c.JSON(map[string]bool{"ok": ok})
	})
	resp, body := env.do(t, http.MethodGet, "/sin-auth", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decode(t, body)["ok"])
}
