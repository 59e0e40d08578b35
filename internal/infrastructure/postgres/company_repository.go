package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	db Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(db Querier) *CompanyRepo {
	return &CompanyRepo{db: db}
}

const companyColumns = `id, name, tax_id, status, expires_at, certificate, certificate_password, created_at, updated_at`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.Name, c.TaxID, c.Status, c.ExpiresAt,
		c.Certificate, nullIfEmpty(c.CertificatePassword),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID. Un id que no es UUID se trata como inexistente.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	if !entity.ValidID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

// GetByTaxID obtiene una empresa por CNPJ.
func (r *CompanyRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE tax_id = $1`, taxID)
}

func (r *CompanyRepo) getOne(ctx context.Context, query string, arg any) (*entity.Company, error) {
	c, err := scanCompany(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// List devuelve empresas con paginación.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// UpdateStatus cambia estado y vencimiento.
func (r *CompanyRepo) UpdateStatus(ctx context.Context, id, status string, expiresAt *time.Time) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE companies SET status = $2, expires_at = $3, updated_at = now() WHERE id = $1`,
		id, status, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("update company status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCertificate reemplaza la credencial de firma.
func (r *CompanyRepo) UpdateCertificate(ctx context.Context, id string, certificate []byte, password string) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE companies SET certificate = $2, certificate_password = $3, updated_at = now() WHERE id = $1`,
		id, certificate, nullIfEmpty(password),
	)
	if err != nil {
		return fmt.Errorf("update company certificate: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	var password *string
	if err := row.Scan(
		&c.ID, &c.Name, &c.TaxID, &c.Status, &c.ExpiresAt,
		&c.Certificate, &password, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if password != nil {
		c.CertificatePassword = *password
	}
	return &c, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
