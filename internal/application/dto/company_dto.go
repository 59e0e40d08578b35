package dto

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/pkg/cnpj"
)

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

// Validate exige nombre y un CNPJ válido, que queda guardado solo con dígitos.
func (r *CreateCompanyRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" || strings.TrimSpace(r.TaxID) == "" {
		return fmt.Errorf("%w: name y tax_id son requeridos", domain.ErrInvalidInput)
	}
	if err := cnpj.Validate(r.TaxID); err != nil {
		return fmt.Errorf("%w: tax_id: %s", domain.ErrInvalidInput, err.Error())
	}
	r.TaxID = cnpj.Normalize(r.TaxID)
	return nil
}

// UpdateCompanyStatusRequest cambio de estado de una empresa (MASTER).
type UpdateCompanyStatusRequest struct {
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Validate exige un estado del conjunto cerrado.
func (r *UpdateCompanyStatusRequest) Validate() error {
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	if !entity.ValidCompanyStatus(r.Status) {
		return fmt.Errorf("%w: status debe ser ACTIVE, SUSPENDED o BLOCKED", domain.ErrInvalidInput)
	}
	return nil
}

// UploadCertificateRequest credencial PKCS#12 en base64 y su contraseña.
type UploadCertificateRequest struct {
	CertificateBase64 string `json:"certificate_base64"`
	Password          string `json:"password"`
}

// Decode valida y decodifica el certificado.
func (r *UploadCertificateRequest) Decode() ([]byte, error) {
	if strings.TrimSpace(r.CertificateBase64) == "" {
		return nil, fmt.Errorf("%w: certificate_base64 es requerido", domain.ErrInvalidInput)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(r.CertificateBase64))
	if err != nil {
		return nil, fmt.Errorf("%w: certificate_base64 no es base64 válido", domain.ErrInvalidInput)
	}
	return raw, nil
}

// CompanyResponse salida de una empresa (sin la credencial de firma).
type CompanyResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	TaxID          string     `json:"tax_id"`
	Status         string     `json:"status"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	HasCertificate bool       `json:"has_certificate"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToCompanyResponse convierte la entidad en su representación pública.
func ToCompanyResponse(c *entity.Company) *CompanyResponse {
	if c == nil {
		return nil
	}
	return &CompanyResponse{
		ID:             c.ID,
		Name:           c.Name,
		TaxID:          c.TaxID,
		Status:         c.Status,
		ExpiresAt:      c.ExpiresAt,
		HasCertificate: c.HasCertificate(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
