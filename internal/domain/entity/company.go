package entity

import "time"

// Estados de Company. Solo ACTIVE habilita operar a sus usuarios.
const (
	CompanyStatusActive    = "ACTIVE"
	CompanyStatusSuspended = "SUSPENDED"
	CompanyStatusBlocked   = "BLOCKED"
)

// Company representa una revendedora/tenant del sistema (unidad de aislamiento de datos).
type Company struct {
	ID        string
	Name      string
	TaxID     string // CNPJ, único en el sistema
	Status    string
	ExpiresAt *time.Time // nil = sin vencimiento

	// Credencial de firma (PKCS#12) usada en la exportación RENAVE. Opaca para el dominio.
	Certificate         []byte
	CertificatePassword string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive informa si la empresa puede operar en el instante now.
// Una empresa vencida se trata igual que una suspendida.
func (c *Company) IsActive(now time.Time) bool {
	if c == nil || c.Status != CompanyStatusActive {
		return false
	}
	return c.ExpiresAt == nil || now.Before(*c.ExpiresAt)
}

// HasCertificate informa si la empresa tiene credencial de firma cargada.
func (c *Company) HasCertificate() bool {
	return c != nil && len(c.Certificate) > 0
}

// ValidCompanyStatus valida el estado recibido desde la API.
func ValidCompanyStatus(s string) bool {
	switch s {
	case CompanyStatusActive, CompanyStatusSuspended, CompanyStatusBlocked:
		return true
	}
	return false
}
