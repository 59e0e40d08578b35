package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autogest-api/internal/application/auth"
	"github.com/jhoicas/autogest-api/internal/application/dto"
	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/domain/mocks"
	pkgjwt "github.com/jhoicas/autogest-api/pkg/jwt"
	"github.com/jhoicas/autogest-api/pkg/password"
)

const testPassword = "s3cret-pass"

type fixture struct {
	uc        *auth.AuthUseCase
	users     *mocks.UserRepository
	companies *mocks.CompanyRepository
	tokens    pkgjwt.Issuer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	hash, err := password.Hash(testPassword)
	require.NoError(t, err)

	companies := mocks.NewCompanyRepository(
		&entity.Company{ID: "c-active", Name: "Ativa", TaxID: "1", Status: entity.CompanyStatusActive},
		&entity.Company{ID: "c-suspended", Name: "Suspensa", TaxID: "2", Status: entity.CompanyStatusSuspended},
		&entity.Company{ID: "c-blocked", Name: "Bloqueada", TaxID: "3", Status: entity.CompanyStatusBlocked},
	)
	users := mocks.NewUserRepository(
		&entity.User{ID: "u1", CompanyID: "c-active", Email: "loja@autogest.test", PasswordHash: hash, Role: entity.RoleShopOperator},
		&entity.User{ID: "u2", CompanyID: "c-suspended", Email: "suspensa@autogest.test", PasswordHash: hash, Role: entity.RoleShopOperator},
		&entity.User{ID: "u3", CompanyID: "c-blocked", Email: "bloqueada@autogest.test", PasswordHash: hash, Role: entity.RoleShopOperator},
		&entity.User{ID: "u4", CompanyID: "c-suspended", Email: "master@autogest.test", PasswordHash: hash, Role: entity.RoleMaster},
	)
	tokens := pkgjwt.Issuer{Secret: "test-secret", Name: "autogest-test", ExpMinutes: 60}
	return fixture{
		uc:        auth.NewAuthUseCase(users, companies, tokens, nil, nil),
		users:     users,
		companies: companies,
		tokens:    tokens,
	}
}

// ── Authenticate ──────────────────────────────────────────────────────────────

func TestAuthenticate_OK(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Authenticate(context.Background(), dto.LoginRequest{Email: "  LOJA@autogest.test ", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, string(entity.RoleShopOperator), out.Role)
	assert.Equal(t, "loja@autogest.test", f.tokens.Resolve(out.Token), "sub = email")
}

func TestAuthenticate_ErroresIndistinguibles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, errWrongPass := f.uc.Authenticate(ctx, dto.LoginRequest{Email: "loja@autogest.test", Password: "incorrecta"})
	_, errUnknown := f.uc.Authenticate(ctx, dto.LoginRequest{Email: "nadie@autogest.test", Password: testPassword})

	require.ErrorIs(t, errWrongPass, domain.ErrInvalidCredentials)
	require.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errUnknown.Error(), "el mensaje no revela cuál falló")
}

func TestAuthenticate_EntradaVaciaEsCredencialInvalida(t *testing.T) {
	f := newFixture(t)
	for _, in := range []dto.LoginRequest{
		{Email: "", Password: ""},
		{Email: "  ", Password: testPassword},
		{Email: "loja@autogest.test", Password: ""},
	} {
		_, err := f.uc.Authenticate(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "%+v", in)
	}
}

// ── ResolveCaller ─────────────────────────────────────────────────────────────

func TestResolveCaller_OK(t *testing.T) {
	f := newFixture(t)
	tok, err := f.tokens.Issue("loja@autogest.test", "SHOP_OPERATOR")
	require.NoError(t, err)

	caller, err := f.uc.ResolveCaller(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", caller.User.ID)
	require.NotNil(t, caller.Company)
	assert.Equal(t, "c-active", caller.Company.ID)
}

func TestResolveCaller_TokenInvalido(t *testing.T) {
	f := newFixture(t)
	expired := pkgjwt.Issuer{Secret: f.tokens.Secret, Name: f.tokens.Name, ExpMinutes: -1}
	old, err := expired.Issue("loja@autogest.test", "SHOP_OPERATOR")
	require.NoError(t, err)
	ghost, err := f.tokens.Issue("borrado@autogest.test", "SHOP_OPERATOR")
	require.NoError(t, err)

	for name, tok := range map[string]string{"vacío": "", "basura": "abc", "expirado": old, "usuario inexistente": ghost} {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.ResolveCaller(context.Background(), tok)
			assert.ErrorIs(t, err, domain.ErrSessionExpired)
		})
	}
}

func TestResolveCaller_EmpresaNoActiva(t *testing.T) {
	f := newFixture(t)
	for _, email := range []string{"suspensa@autogest.test", "bloqueada@autogest.test"} {
		tok, err := f.tokens.Issue(email, "SHOP_OPERATOR")
		require.NoError(t, err)
		_, err = f.uc.ResolveCaller(context.Background(), tok)
		assert.ErrorIs(t, err, domain.ErrTenantSuspended, email)
	}
}

func TestResolveCaller_SuspensionInmediata(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tok, err := f.tokens.Issue("loja@autogest.test", "SHOP_OPERATOR")
	require.NoError(t, err)

	_, err = f.uc.ResolveCaller(ctx, tok)
	require.NoError(t, err)

	require.NoError(t, f.companies.UpdateStatus(ctx, "c-active", entity.CompanyStatusSuspended, nil))
	_, err = f.uc.ResolveCaller(ctx, tok)
	assert.ErrorIs(t, err, domain.ErrTenantSuspended, "el token sigue siendo válido pero la empresa no")
}

func TestResolveCaller_EmpresaVencida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)
	require.NoError(t, f.companies.UpdateStatus(ctx, "c-active", entity.CompanyStatusActive, &past))

	tok, err := f.tokens.Issue("loja@autogest.test", "SHOP_OPERATOR")
	require.NoError(t, err)
	_, err = f.uc.ResolveCaller(ctx, tok)
	assert.ErrorIs(t, err, domain.ErrTenantSuspended)
}

func TestResolveCaller_MasterNoDependeDeLaEmpresa(t *testing.T) {
	f := newFixture(t)
	tok, err := f.tokens.Issue("master@autogest.test", "MASTER")
	require.NoError(t, err)

	caller, err := f.uc.ResolveCaller(context.Background(), tok)
	require.NoError(t, err, "MASTER no pasa por la verificación de empresa")
	assert.False(t, caller.TenantScoped())
}

// ── ProvisionMaster ───────────────────────────────────────────────────────────

func TestProvisionMaster_Idempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := auth.ProvisionMasterInput{Email: "Root@AutoGest.test", Name: "Root", Password: "primera-clave"}

	u, created, err := f.uc.ProvisionMaster(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "root@autogest.test", u.Email)
	assert.Equal(t, entity.RoleMaster, u.Role)

	in.Password = "otra-clave-distinta"
	again, created, err := f.uc.ProvisionMaster(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)

	_, err = f.uc.Authenticate(ctx, dto.LoginRequest{Email: "root@autogest.test", Password: "primera-clave"})
	assert.NoError(t, err, "la segunda ejecución no resetea la contraseña")
	_, err = f.uc.Authenticate(ctx, dto.LoginRequest{Email: "root@autogest.test", Password: "otra-clave-distinta"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestProvisionMaster_EmailDeOtroRol(t *testing.T) {
	f := newFixture(t)
	_, created, err := f.uc.ProvisionMaster(context.Background(), auth.ProvisionMasterInput{
		Email: "loja@autogest.test", Password: "primera-clave",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.False(t, created)

	u, err := f.users.GetByEmail(context.Background(), "loja@autogest.test")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleShopOperator, u.Role, "el usuario existente no se modifica")
}

func TestProvisionMaster_ExigePassword(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.uc.ProvisionMaster(context.Background(), auth.ProvisionMasterInput{Email: "root@autogest.test"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProvisionMaster_EmpresaInexistente(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.uc.ProvisionMaster(context.Background(), auth.ProvisionMasterInput{
		Email: "root@autogest.test", Password: "primera-clave", CompanyID: "no-existe",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
