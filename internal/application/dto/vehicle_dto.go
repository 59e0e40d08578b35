package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/pkg/plate"
)

// CreateVehicleRequest entrada para dar de alta un vehículo en stock.
// CompanyID solo lo considera un MASTER; para SHOP_OPERATOR se ignora.
type CreateVehicleRequest struct {
	Make      string           `json:"make"`
	Model     string           `json:"model"`
	Year      string           `json:"year"`
	Plate     string           `json:"plate"`
	Value     *decimal.Decimal `json:"value"`
	CompanyID string           `json:"company_id"`
}

// Validate normaliza la placa y valida campos requeridos y valor no negativo.
func (r *CreateVehicleRequest) Validate() error {
	r.Make = strings.TrimSpace(r.Make)
	r.Model = strings.TrimSpace(r.Model)
	r.Year = strings.TrimSpace(r.Year)
	r.CompanyID = strings.TrimSpace(r.CompanyID)
	r.Plate = plate.Normalize(r.Plate)

	var missing []string
	if r.Make == "" {
		missing = append(missing, "make")
	}
	if r.Model == "" {
		missing = append(missing, "model")
	}
	if r.Plate == "" {
		missing = append(missing, "plate")
	}
	if r.Value == nil {
		missing = append(missing, "value")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: campos requeridos: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	if !plate.Valid(r.Plate) {
		return fmt.Errorf("%w: placa %q inválida", domain.ErrInvalidInput, r.Plate)
	}
	if r.Value.IsNegative() {
		return fmt.Errorf("%w: value no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// SellVehicleRequest datos de la venta.
type SellVehicleRequest struct {
	BuyerName     string           `json:"buyer_name"`
	BuyerDocument string           `json:"buyer_document"`
	BuyerAddress  string           `json:"buyer_address"`
	SaleValue     *decimal.Decimal `json:"sale_value"`
}

// Validate exige comprador, documento y valor de venta no negativo.
func (r *SellVehicleRequest) Validate() error {
	r.BuyerName = strings.TrimSpace(r.BuyerName)
	r.BuyerDocument = strings.TrimSpace(r.BuyerDocument)
	r.BuyerAddress = strings.TrimSpace(r.BuyerAddress)
	if r.BuyerName == "" || r.BuyerDocument == "" || r.SaleValue == nil {
		return fmt.Errorf("%w: buyer_name, buyer_document y sale_value son requeridos", domain.ErrInvalidInput)
	}
	if r.SaleValue.IsNegative() {
		return fmt.Errorf("%w: sale_value no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// ListVehiclesRequest filtros de listado.
type ListVehiclesRequest struct {
	Status    string `query:"status"`
	CompanyID string `query:"company_id"`
}

// Validate acepta status vacío, IN_STOCK o SOLD, y company_id vacío o UUID.
func (r *ListVehiclesRequest) Validate() error {
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	r.CompanyID = strings.TrimSpace(r.CompanyID)
	if r.Status != "" && !entity.ValidVehicleStatus(r.Status) {
		return fmt.Errorf("%w: status debe ser IN_STOCK o SOLD", domain.ErrInvalidInput)
	}
	if r.CompanyID != "" && !entity.ValidID(r.CompanyID) {
		return fmt.Errorf("%w: company_id %q no es un UUID", domain.ErrInvalidInput, r.CompanyID)
	}
	return nil
}

// VehicleResponse salida de un vehículo.
type VehicleResponse struct {
	ID                 string           `json:"id"`
	CompanyID          string           `json:"company_id"`
	Make               string           `json:"make"`
	Model              string           `json:"model"`
	Year               string           `json:"year,omitempty"`
	Plate              string           `json:"plate"`
	Value              decimal.Decimal  `json:"value"`
	Status             string           `json:"status"`
	RegistrationNumber *string          `json:"registration_number"`
	EntryAt            time.Time        `json:"entry_at"`
	SoldAt             *time.Time       `json:"sold_at"`
	BuyerName          string           `json:"buyer_name,omitempty"`
	BuyerDocument      string           `json:"buyer_document,omitempty"`
	BuyerAddress       string           `json:"buyer_address,omitempty"`
	SaleValue          *decimal.Decimal `json:"sale_value,omitempty"`
}

// VehicleListResponse lista de vehículos del tenant.
type VehicleListResponse struct {
	Items []VehicleResponse `json:"items"`
	Total int               `json:"total"`
}

// RegistrationResponse número RENAVE emitido.
type RegistrationResponse struct {
	VehicleID          string `json:"vehicle_id"`
	RegistrationNumber string `json:"registration_number"`
}

// DeleteResponse confirmación de borrado.
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// ToVehicleResponse convierte la entidad en su representación pública.
func ToVehicleResponse(v *entity.Vehicle) *VehicleResponse {
	if v == nil {
		return nil
	}
	out := &VehicleResponse{
		ID:                 v.ID,
		CompanyID:          v.CompanyID,
		Make:               v.Make,
		Model:              v.Model,
		Year:               v.Year,
		Plate:              v.Plate,
		Value:              v.Value,
		Status:             v.Status,
		RegistrationNumber: v.RegistrationNumber,
		EntryAt:            v.EntryAt,
		SoldAt:             v.SoldAt,
		SaleValue:          v.SaleValue,
	}
	if v.Buyer != nil {
		out.BuyerName = v.Buyer.Name
		out.BuyerDocument = v.Buyer.Document
		out.BuyerAddress = v.Buyer.Address
	}
	return out
}
