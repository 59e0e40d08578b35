package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida: IN_STOCK es inicial, SOLD es terminal.
const (
	VehicleStatusInStock = "IN_STOCK"
	VehicleStatusSold    = "SOLD"
)

// Vehicle representa un vehículo del stock de una revendedora.
// Invariante: Status == SOLD ⇔ SoldAt != nil.
type Vehicle struct {
	ID                 string
	CompanyID          string
	Make               string
	Model              string
	Year               string // libre: "2019", "2019/2020"
	Plate              string // normalizada, única por empresa
	Value              decimal.Decimal
	Status             string
	RegistrationNumber *string // RENAVE, se asigna una sola vez
	EntryAt            time.Time
	SoldAt             *time.Time
	Buyer              *Buyer
	SaleValue          *decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Buyer datos del comprador registrados en la venta.
type Buyer struct {
	Name     string
	Document string // CPF/CNPJ
	Address  string
}

// IsSold informa si el vehículo ya fue vendido.
func (v *Vehicle) IsSold() bool {
	return v.Status == VehicleStatusSold
}

// IsRegistered informa si el vehículo ya tiene número RENAVE.
func (v *Vehicle) IsRegistered() bool {
	return v.RegistrationNumber != nil && *v.RegistrationNumber != ""
}

// MarkSold aplica la transición IN_STOCK → SOLD. El llamador valida que no esté vendido.
func (v *Vehicle) MarkSold(buyer Buyer, saleValue decimal.Decimal, now time.Time) {
	v.Status = VehicleStatusSold
	v.SoldAt = &now
	v.Buyer = &buyer
	v.SaleValue = &saleValue
	v.UpdatedAt = now
}

// ValidVehicleStatus valida un filtro de estado recibido desde la API.
func ValidVehicleStatus(s string) bool {
	return s == VehicleStatusInStock || s == VehicleStatusSold
}
