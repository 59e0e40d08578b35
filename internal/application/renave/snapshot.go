package renave

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
)

// Snapshot copia inmutable de un vehículo y su empresa en el instante de generar un documento.
// Los generadores no acceden al registro: solo reciben esto.
type Snapshot struct {
	VehicleID          string
	CompanyName        string
	CompanyTaxID       string
	Make               string
	Model              string
	Year               string
	Plate              string
	Value              decimal.Decimal
	Status             string
	RegistrationNumber string
	EntryAt            time.Time
	SoldAt             *time.Time
	BuyerName          string
	BuyerDocument      string
	BuyerAddress       string
	SaleValue          *decimal.Decimal
	GeneratedAt        time.Time
}

// NewSnapshot copia los campos del vehículo y de la empresa. company puede ser nil.
func NewSnapshot(v *entity.Vehicle, company *entity.Company, now time.Time) Snapshot {
	s := Snapshot{
		VehicleID:   v.ID,
		Make:        v.Make,
		Model:       v.Model,
		Year:        v.Year,
		Plate:       v.Plate,
		Value:       v.Value,
		Status:      v.Status,
		EntryAt:     v.EntryAt,
		GeneratedAt: now,
	}
	if company != nil {
		s.CompanyName = company.Name
		s.CompanyTaxID = company.TaxID
	}
	if v.RegistrationNumber != nil {
		s.RegistrationNumber = *v.RegistrationNumber
	}
	if v.SoldAt != nil {
		soldAt := *v.SoldAt
		s.SoldAt = &soldAt
	}
	if v.Buyer != nil {
		s.BuyerName = v.Buyer.Name
		s.BuyerDocument = v.Buyer.Document
		s.BuyerAddress = v.Buyer.Address
	}
	if v.SaleValue != nil {
		sale := *v.SaleValue
		s.SaleValue = &sale
	}
	return s
}

// Validate devuelve domain.ErrRenderFailed nombrando los campos obligatorios vacíos.
func (s Snapshot) Validate() error {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("id", s.VehicleID)
	check("company_name", s.CompanyName)
	check("make", s.Make)
	check("model", s.Model)
	check("plate", s.Plate)
	check("status", s.Status)
	check("registration_number", s.RegistrationNumber)
	if s.EntryAt.IsZero() {
		missing = append(missing, "entry_at")
	}
	if s.Status == entity.VehicleStatusSold && s.SoldAt == nil {
		missing = append(missing, "sold_at")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: faltan campos obligatorios: %s", domain.ErrRenderFailed, strings.Join(missing, ", "))
	}
	return nil
}

// FileName nombre de archivo sugerido con la extensión indicada.
func (s Snapshot) FileName(ext string) string {
	return fmt.Sprintf("renave_%s.%s", s.Plate, ext)
}
