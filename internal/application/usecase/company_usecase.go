package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/autogest-api/internal/application/dto"
	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/domain/repository"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

// CertificateValidator verifica que una credencial PKCS#12 abra con su contraseña.
type CertificateValidator interface {
	Validate(p12 []byte, password string) error
}

// CompanyUseCase aplica reglas de negocio para empresas (solo MASTER).
type CompanyUseCase struct {
	repo      repository.CompanyRepository
	validator CertificateValidator
	log       *logger.Logger
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, validator CertificateValidator, log *logger.Logger) *CompanyUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CompanyUseCase{repo: repo, validator: validator, log: log.Named("company")}
}

// Create crea una nueva empresa ACTIVE. Devuelve domain.ErrDuplicate si el CNPJ ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByTaxID(ctx, in.TaxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Status:    entity.CompanyStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", company.ID).Str("tax_id", company.TaxID).Msg("empresa creada")
	return dto.ToCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToCompanyResponse(company), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *dto.ToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// UpdateStatus suspende, bloquea o reactiva una empresa. El efecto es inmediato:
// la siguiente petición de sus usuarios resuelve contra el nuevo estado.
func (uc *CompanyUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateCompanyStatusRequest) (*dto.CompanyResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.UpdateStatus(ctx, id, in.Status, in.ExpiresAt); err != nil {
		return nil, err
	}
	company.Status = in.Status
	company.ExpiresAt = in.ExpiresAt
	company.UpdatedAt = time.Now()
	uc.log.Info().Str("company_id", id).Str("status", in.Status).Msg("estado de empresa actualizado")
	return dto.ToCompanyResponse(company), nil
}

// UploadCertificate guarda la credencial de firma tras comprobar que abre con su contraseña.
func (uc *CompanyUseCase) UploadCertificate(ctx context.Context, id string, in dto.UploadCertificateRequest) (*dto.CompanyResponse, error) {
	raw, err := in.Decode()
	if err != nil {
		return nil, err
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if uc.validator != nil {
		if err := uc.validator.Validate(raw, in.Password); err != nil {
			return nil, fmt.Errorf("%w: certificado no válido: %s", domain.ErrInvalidInput, err.Error())
		}
	}
	if err := uc.repo.UpdateCertificate(ctx, id, raw, in.Password); err != nil {
		return nil, err
	}
	company.Certificate = raw
	company.CertificatePassword = in.Password
	company.UpdatedAt = time.Now()
	uc.log.Info().Str("company_id", id).Msg("certificado de firma actualizado")
	return dto.ToCompanyResponse(company), nil
}
