package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/autogest-api/internal/application/analytics"
	"github.com/jhoicas/autogest-api/internal/application/auth"
	"github.com/jhoicas/autogest-api/internal/application/renave"
	"github.com/jhoicas/autogest-api/internal/application/usecase"
	"github.com/jhoicas/autogest-api/internal/application/vehicle"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/domain/mocks"
	"github.com/jhoicas/autogest-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/autogest-api/internal/infrastructure/pdf"
	infrarenave "github.com/jhoicas/autogest-api/internal/infrastructure/renave"
	apphttp "github.com/jhoicas/autogest-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/autogest-api/pkg/jwt"
	"github.com/jhoicas/autogest-api/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "autogest-test"
	testPassword  = "clave-segura"

	companyA = "0b6f5a7e-1c2d-4e3f-8a9b-0c1d2e3f4a5b"
	companyB = "7d8e9f01-2a3b-4c5d-9e6f-7a8b9c0d1e2f"

	emailMaster = "master@autogest.test"
	emailOpA    = "loja-a@autogest.test"
	emailOpB    = "loja-b@autogest.test"
)

type testEnv struct {
	app       *fiber.App
	tokens    pkgjwt.Issuer
	companies *mocks.CompanyRepository
	metrics   *metrics.Metrics
}

type envOptions struct {
	limiter *apphttp.LoginLimiter
}

// newTestEnv arma la API completa sobre repositorios en memoria.
func newTestEnv(t *testing.T, opts ...envOptions) testEnv {
	t.Helper()
	hash, err := password.Hash(testPassword)
	require.NoError(t, err)

	companies := mocks.NewCompanyRepository(
		&entity.Company{ID: companyA, Name: "Loja A", TaxID: "11", Status: entity.CompanyStatusActive},
		&entity.Company{ID: companyB, Name: "Loja B", TaxID: "22", Status: entity.CompanyStatusActive},
	)
	users := mocks.NewUserRepository(
		&entity.User{ID: "u-master", Email: emailMaster, PasswordHash: hash, Role: entity.RoleMaster},
		&entity.User{ID: "u-a", CompanyID: companyA, Email: emailOpA, PasswordHash: hash, Role: entity.RoleShopOperator},
		&entity.User{ID: "u-b", CompanyID: companyB, Email: emailOpB, PasswordHash: hash, Role: entity.RoleShopOperator},
	)
	vehicles := mocks.NewVehicleRepository()

	m := metrics.New()
	tokens := pkgjwt.Issuer{Secret: testJWTSecret, Name: testIssuer, ExpMinutes: 60}
	vehicleUC := vehicle.NewUseCase(vehicles, companies, mocks.NewTxRunner(vehicles), vehicle.Config{}, m, nil)

	deps := apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(users, companies, tokens, m, nil),
		VehicleUC:   vehicleUC,
		DashboardUC: appanalytics.NewDashboardUseCase(vehicles),
		RenaveUC: renave.NewUseCase(renave.Deps{
			Vehicles:    vehicleUC,
			CompanyRepo: companies,
			Renderer:    infrapdf.NewCertificateGenerator(time.UTC),
			XML:         infrarenave.NewXMLBuilder(),
			Signer:      infrarenave.NewSignatureService(),
			Loader:      infrarenave.NewCredentialLoader(),
			Metrics:     m,
		}),
		CompanyUC:   usecase.NewCompanyUseCase(companies, infrarenave.NewCredentialLoader(), nil),
		UserUC:      usecase.NewUserUseCase(users, companies),
		Metrics:     m,
		ServiceName: "autogest-test",
	}
	for _, o := range opts {
		deps.LoginLimiter = o.limiter
	}

	app := fiber.New()
	apphttp.Router(app, deps)
	return testEnv{app: app, tokens: tokens, companies: companies, metrics: m}
}

// bearer emite un token válido para el email indicado.
func (e testEnv) bearer(t *testing.T, email string) string {
	t.Helper()
	tok, err := e.tokens.Issue(email, "")
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// do lanza la petición y devuelve la respuesta con el cuerpo ya leído.
func (e testEnv) do(t *testing.T, method, path, authHeader string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

// decode deserializa el cuerpo en un mapa genérico.
func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m), string(body))
	return m
}
