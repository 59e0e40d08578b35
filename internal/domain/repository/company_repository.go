package repository

import (
	"context"
	"time"

	"github.com/jhoicas/autogest-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. Los Get devuelven (nil, nil) si no existe.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.Company, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	UpdateStatus(ctx context.Context, id, status string, expiresAt *time.Time) error
	UpdateCertificate(ctx context.Context, id string, certificate []byte, password string) error
}
