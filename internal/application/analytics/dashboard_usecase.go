// Package analytics deriva los agregados del dashboard recorriendo el estado actual del registro.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autogest-api/internal/application/dto"
	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/domain/repository"
)

// CountingPolicy conjunto de vehículos que entra en los contadores y en la suma de valor declarado.
type CountingPolicy string

const (
	ScopeAllVehicles CountingPolicy = "ALL_VEHICLES"
	ScopeInStockOnly CountingPolicy = "IN_STOCK_ONLY"
)

// DashboardScope política aplicada por igual a total_vehicles y total_declared_value.
const DashboardScope = ScopeAllVehicles

// DashboardUseCase recalcula el dashboard en cada llamada, sin caché.
type DashboardUseCase struct {
	repo repository.VehicleRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.VehicleRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// Dashboard agrega los vehículos visibles para el llamador.
// companyID solo lo considera un MASTER; vacío = todas las empresas.
func (uc *DashboardUseCase) Dashboard(ctx context.Context, caller entity.Caller, companyID string) (*dto.DashboardDTO, error) {
	if !caller.Allows(entity.OpDashboardRead) {
		return nil, domain.ErrForbidden
	}
	if companyID != "" && !entity.ValidID(companyID) {
		return nil, fmt.Errorf("%w: company_id %q no es un UUID", domain.ErrInvalidInput, companyID)
	}
	scope, ok := entity.ScopeFor(caller, companyID)
	if !ok {
		return nil, domain.ErrForbidden
	}
	list, err := uc.repo.List(ctx, repository.VehicleFilter{CompanyID: scope.FilterCompanyID()})
	if err != nil {
		return nil, fmt.Errorf("analytics: listar vehículos: %w", err)
	}
	out := Summarize(list, DashboardScope)
	out.CompanyID = scope.FilterCompanyID()
	return out, nil
}

// Summarize calcula los agregados sobre vehicles según la política indicada.
// Se cumple InStockCount + SoldCount == TotalVehicles para cualquier política.
func Summarize(vehicles []*entity.Vehicle, policy CountingPolicy) *dto.DashboardDTO {
	out := &dto.DashboardDTO{
		Scope:                string(policy),
		TotalDeclaredValue:   decimal.Zero,
		InStockDeclaredValue: decimal.Zero,
		TotalSaleValue:       decimal.Zero,
	}
	for _, v := range vehicles {
		if v == nil {
			continue
		}
		if policy == ScopeInStockOnly && v.IsSold() {
			continue
		}
		out.TotalVehicles++
		out.TotalDeclaredValue = out.TotalDeclaredValue.Add(v.Value)
		if v.IsRegistered() {
			out.RegisteredCount++
		}
		if v.IsSold() {
			out.SoldCount++
			if v.SaleValue != nil {
				out.TotalSaleValue = out.TotalSaleValue.Add(*v.SaleValue)
			}
			continue
		}
		out.InStockCount++
		out.InStockDeclaredValue = out.InStockDeclaredValue.Add(v.Value)
	}
	return out
}
