package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autogest-api/internal/application/analytics"
	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/domain/mocks"
)

func stock(id, company string, value int64) *entity.Vehicle {
	return &entity.Vehicle{
		ID: id, CompanyID: company, Make: "VW", Model: "GOL", Plate: "P" + id,
		Value: decimal.NewFromInt(value), Status: entity.VehicleStatusInStock, EntryAt: time.Now(),
	}
}

func sold(id, company string, value, sale int64) *entity.Vehicle {
	v := stock(id, company, value)
	v.MarkSold(entity.Buyer{Name: "M", Document: "1"}, decimal.NewFromInt(sale), time.Now())
	return v
}

func TestSummarize_InvarianteDeConteo(t *testing.T) {
	reg := "RNV1"
	registered := stock("4", "a", 5000)
	registered.RegistrationNumber = &reg
	list := []*entity.Vehicle{
		stock("1", "a", 30000),
		stock("2", "a", 20000),
		sold("3", "a", 10000, 12000),
		registered,
	}

	for _, policy := range []analytics.CountingPolicy{analytics.ScopeAllVehicles, analytics.ScopeInStockOnly} {
		t.Run(string(policy), func(t *testing.T) {
			out := analytics.Summarize(list, policy)
			assert.Equal(t, out.TotalVehicles, out.InStockCount+out.SoldCount)
			assert.Equal(t, string(policy), out.Scope)
		})
	}

	all := analytics.Summarize(list, analytics.ScopeAllVehicles)
	assert.Equal(t, 4, all.TotalVehicles)
	assert.Equal(t, 3, all.InStockCount)
	assert.Equal(t, 1, all.SoldCount)
	assert.Equal(t, 1, all.RegisteredCount)
	assert.True(t, all.TotalDeclaredValue.Equal(decimal.NewFromInt(65000)), "la suma usa el mismo conjunto que el conteo")
	assert.True(t, all.InStockDeclaredValue.Equal(decimal.NewFromInt(55000)))
	assert.True(t, all.TotalSaleValue.Equal(decimal.NewFromInt(12000)))

	inStock := analytics.Summarize(list, analytics.ScopeInStockOnly)
	assert.Equal(t, 3, inStock.TotalVehicles)
	assert.Equal(t, 0, inStock.SoldCount)
	assert.True(t, inStock.TotalDeclaredValue.Equal(decimal.NewFromInt(55000)))
}

func TestSummarize_Vacio(t *testing.T) {
	out := analytics.Summarize(nil, analytics.DashboardScope)
	assert.Zero(t, out.TotalVehicles)
	assert.True(t, out.TotalDeclaredValue.IsZero())
}

const (
	companyA = "0b6f5a7e-1c2d-4e3f-8a9b-0c1d2e3f4a5b"
	companyB = "7d8e9f01-2a3b-4c5d-9e6f-7a8b9c0d1e2f"
)

func TestDashboard_AlcancePorRol(t *testing.T) {
	repo := mocks.NewVehicleRepository(
		stock("1", companyA, 100),
		sold("2", companyA, 200, 250),
		stock("3", companyB, 400),
	)
	uc := analytics.NewDashboardUseCase(repo)
	ctx := context.Background()

	opA := entity.Caller{User: &entity.User{CompanyID: companyA, Role: entity.RoleShopOperator}}
	out, err := uc.Dashboard(ctx, opA, companyB)
	require.NoError(t, err)
	assert.Equal(t, companyA, out.CompanyID, "el operador no puede pedir otra empresa")
	assert.Equal(t, 2, out.TotalVehicles)
	assert.True(t, out.TotalDeclaredValue.Equal(decimal.NewFromInt(300)))

	master := entity.Caller{User: &entity.User{Role: entity.RoleMaster}}
	out, err = uc.Dashboard(ctx, master, "")
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalVehicles)
	assert.Empty(t, out.CompanyID)

	out, err = uc.Dashboard(ctx, master, companyB)
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalVehicles)

	orphan := entity.Caller{User: &entity.User{Role: entity.RoleShopOperator}}
	_, err = uc.Dashboard(ctx, orphan, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDashboard_RecalculaEnCadaLlamada(t *testing.T) {
	repo := mocks.NewVehicleRepository(stock("1", companyA, 100))
	uc := analytics.NewDashboardUseCase(repo)
	op := entity.Caller{User: &entity.User{CompanyID: companyA, Role: entity.RoleShopOperator}}

	out, err := uc.Dashboard(context.Background(), op, "")
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalVehicles)

	_, err = repo.Delete(context.Background(), "1")
	require.NoError(t, err)
	out, err = uc.Dashboard(context.Background(), op, "")
	require.NoError(t, err)
	assert.Equal(t, 0, out.TotalVehicles, "el borrado sale de los agregados")
}

func TestDashboard_CompanyIDMalFormado(t *testing.T) {
	uc := analytics.NewDashboardUseCase(mocks.NewVehicleRepository())
	master := entity.Caller{User: &entity.User{Role: entity.RoleMaster}}

	_, err := uc.Dashboard(context.Background(), master, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
