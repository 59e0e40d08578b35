package http_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/autogest-api/internal/interfaces/http"
)

func TestLogin_OK(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": emailOpA, "password": testPassword})

	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	out := decode(t, body)
	token, _ := out["access_token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "SHOP_OPERATOR", out["role"])

	resp, body = env.do(t, http.MethodGet, "/api/auth/me", "Bearer "+token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode(t, body)
	assert.Equal(t, emailOpA, me["user"].(map[string]any)["email"])
	assert.Equal(t, companyA, me["company"].(map[string]any)["id"])
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	env := newTestEnv(t)
	for _, in := range []map[string]string{
		{"email": emailOpA, "password": "incorrecta"},
		{"email": "nadie@autogest.test", "password": testPassword},
		{"email": "", "password": ""},
	} {
		resp, body := env.do(t, http.MethodPost, "/api/auth/login", "", in)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", decode(t, body)["code"])
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(env.metrics.Logins.WithLabelValues("invalid")))
}

func TestLogin_LimitePorIP(t *testing.T) {
	limiter := apphttp.NewLoginLimiter(0.001, 2, nil)
	env := newTestEnv(t, envOptions{limiter: limiter})
	in := map[string]string{"email": emailOpA, "password": "incorrecta"}

	for i := 0; i < 2; i++ {
		resp, _ := env.do(t, http.MethodPost, "/api/auth/login", "", in)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, body := env.do(t, http.MethodPost, "/api/auth/login", "", in)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "TOO_MANY_REQUESTS", decode(t, body)["code"])
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestHealthYMetrics(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode(t, body)["status"])

	resp, body = env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "autogest_http_requests_total"), "el contador HTTP debe estar expuesto")
}
