package renave_test

import (
	"context"
	"crypto/tls"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autogest-api/internal/application/renave"
	"github.com/jhoicas/autogest-api/internal/application/vehicle"
	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/domain/mocks"
)

const (
	vehReg   = "1a2b3c4d-0001-4000-8000-000000000001"
	vehNoReg = "1a2b3c4d-0002-4000-8000-000000000002"
	vehB     = "1a2b3c4d-0003-4000-8000-000000000003"
)

type fakeRenderer struct{ got renave.Snapshot }

func (f *fakeRenderer) Render(_ context.Context, s renave.Snapshot) ([]byte, error) {
	f.got = s
	return []byte("%PDF-fake"), nil
}

type fakeBuilder struct{}

func (fakeBuilder) Build(s renave.Snapshot) ([]byte, error) {
	return []byte("<RenaveEntrada>" + s.Plate + "</RenaveEntrada>"), nil
}

type fakeSigner struct{ calls int }

func (f *fakeSigner) Sign(x []byte, _ tls.Certificate) ([]byte, error) {
	f.calls++
	return append(x, []byte("<Signature/>")...), nil
}

type fakeLoader struct{ err error }

func (f fakeLoader) Load(_ []byte, _ string) (tls.Certificate, error) {
	return tls.Certificate{}, f.err
}

type fixture struct {
	uc       *renave.UseCase
	renderer *fakeRenderer
	signer   *fakeSigner
	opA      entity.Caller
	opB      entity.Caller
}

func newFixture(t *testing.T, loader renave.CredentialLoader) fixture {
	t.Helper()
	number := "RNV000000000042"
	entry := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	companies := mocks.NewCompanyRepository(
		&entity.Company{ID: "a", Name: "Loja A", TaxID: "A", Status: entity.CompanyStatusActive},
		&entity.Company{ID: "b", Name: "Loja B", TaxID: "B", Status: entity.CompanyStatusActive,
			Certificate: []byte("p12"), CertificatePassword: "x"},
	)
	vehicles := mocks.NewVehicleRepository(
		&entity.Vehicle{ID: vehReg, CompanyID: "a", Make: "VW", Model: "GOL", Plate: "ABC1234",
			Value: decimal.NewFromInt(30000), Status: entity.VehicleStatusInStock, RegistrationNumber: &number, EntryAt: entry},
		&entity.Vehicle{ID: vehNoReg, CompanyID: "a", Make: "FIAT", Model: "UNO", Plate: "XYZ9876",
			Value: decimal.NewFromInt(12000), Status: entity.VehicleStatusInStock, EntryAt: entry},
		&entity.Vehicle{ID: vehB, CompanyID: "b", Make: "FORD", Model: "KA", Plate: "KAA0001",
			Value: decimal.NewFromInt(20000), Status: entity.VehicleStatusInStock, RegistrationNumber: &number, EntryAt: entry},
	)
	finder := vehicle.NewUseCase(vehicles, companies, mocks.NewTxRunner(vehicles), vehicle.Config{}, nil, nil)

	f := fixture{
		renderer: &fakeRenderer{},
		signer:   &fakeSigner{},
		opA:      entity.Caller{User: &entity.User{ID: "u-a", CompanyID: "a", Role: entity.RoleShopOperator}},
		opB:      entity.Caller{User: &entity.User{ID: "u-b", CompanyID: "b", Role: entity.RoleShopOperator}},
	}
	f.uc = renave.NewUseCase(renave.Deps{
		Vehicles:    finder,
		CompanyRepo: companies,
		Renderer:    f.renderer,
		XML:         fakeBuilder{},
		Signer:      f.signer,
		Loader:      loader,
	})
	return f
}

func TestCertificate_OK(t *testing.T) {
	f := newFixture(t, fakeLoader{})

	doc, err := f.uc.Certificate(context.Background(), f.opA, vehReg)
	require.NoError(t, err)
	assert.Equal(t, "renave_ABC1234.pdf", doc.FileName)
	assert.Equal(t, []byte("%PDF-fake"), doc.Content)
	assert.Equal(t, "Loja A", f.renderer.got.CompanyName)
	assert.Equal(t, "RNV000000000042", f.renderer.got.RegistrationNumber)
}

func TestCertificate_SinNumeroRenave(t *testing.T) {
	f := newFixture(t, fakeLoader{})

	_, err := f.uc.Certificate(context.Background(), f.opA, vehNoReg)
	require.ErrorIs(t, err, domain.ErrRenderFailed)
	assert.Contains(t, err.Error(), "registration_number")
}

func TestCertificate_OtraEmpresaEsNotFound(t *testing.T) {
	f := newFixture(t, fakeLoader{})

	_, errForeign := f.uc.Certificate(context.Background(), f.opA, vehB)
	_, errMissing := f.uc.Certificate(context.Background(), f.opA, "1a2b3c4d-0009-4000-8000-000000000009")
	_, errMalformed := f.uc.ExportXML(context.Background(), f.opA, "no-existe")
	assert.ErrorIs(t, errForeign, domain.ErrNotFound)
	assert.ErrorIs(t, errMissing, domain.ErrNotFound)
	assert.ErrorIs(t, errMalformed, domain.ErrNotFound)
}

func TestExportXML_SinCredencialNoFirma(t *testing.T) {
	f := newFixture(t, fakeLoader{})

	doc, err := f.uc.ExportXML(context.Background(), f.opA, vehReg)
	require.NoError(t, err)
	assert.False(t, doc.Signed)
	assert.Equal(t, "renave_ABC1234.xml", doc.FileName)
	assert.Zero(t, f.signer.calls)
}

func TestExportXML_ConCredencialFirma(t *testing.T) {
	f := newFixture(t, fakeLoader{})

	doc, err := f.uc.ExportXML(context.Background(), f.opB, vehB)
	require.NoError(t, err)
	assert.True(t, doc.Signed)
	assert.Equal(t, 1, f.signer.calls)
	assert.Contains(t, string(doc.Content), "<Signature/>")
}

func TestExportXML_CredencialInvalida(t *testing.T) {
	f := newFixture(t, fakeLoader{err: errors.New("pkcs12: decryption password incorrect")})

	_, err := f.uc.ExportXML(context.Background(), f.opB, vehB)
	assert.ErrorIs(t, err, domain.ErrRenderFailed)
	assert.Zero(t, f.signer.calls)
}
