package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/domain/repository"
)

var _ repository.VehicleRepository = (*VehicleRepo)(nil)

// Constraints únicas definidas en la migración inicial.
const (
	constraintCompanyPlate       = "vehicles_company_plate_key"
	constraintRegistrationNumber = "vehicles_registration_number_key"
)

// VehicleRepo implementación del puerto VehicleRepository sobre PostgreSQL (pool o tx).
type VehicleRepo struct {
	db Querier
}

// NewVehicleRepository construye el adaptador. Con un pgx.Tx las lecturas FOR UPDATE bloquean hasta el commit.
func NewVehicleRepository(db Querier) *VehicleRepo {
	return &VehicleRepo{db: db}
}

const vehicleColumns = `id, company_id, make, model, year, plate, value, status, registration_number,
	entry_at, sold_at, buyer_name, buyer_document, buyer_address, sale_value, created_at, updated_at`

// Create persiste un vehículo nuevo.
func (r *VehicleRepo) Create(ctx context.Context, v *entity.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, company_id, make, model, year, plate, value, status, entry_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		v.ID, v.CompanyID, v.Make, v.Model, nullIfEmpty(v.Year), v.Plate, v.Value, v.Status,
		v.EntryAt, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, constraintCompanyPlate) {
			return domain.ErrDuplicatePlate
		}
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// GetByID obtiene un vehículo por ID. Un id que no es UUID se trata como inexistente.
func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	if !entity.ValidID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el vehículo y bloquea la fila hasta el fin de la transacción.
func (r *VehicleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Vehicle, error) {
	if !entity.ValidID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1 FOR UPDATE`, id)
}

// LockPlate toma un advisory lock transaccional sobre la placa. Fuera de una tx se libera al instante.
func (r *VehicleRepo) LockPlate(ctx context.Context, plate string) error {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('vehicle_plate:' || $1))`, plate); err != nil {
		return fmt.Errorf("lock plate: %w", err)
	}
	return nil
}

// FindByPlate busca por placa; companyID vacío busca en todas las empresas.
func (r *VehicleRepo) FindByPlate(ctx context.Context, companyID, plate string) (*entity.Vehicle, error) {
	if companyID == "" {
		return r.getOne(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE plate = $1 ORDER BY id LIMIT 1`, plate)
	}
	if !entity.ValidID(companyID) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE company_id = $1 AND plate = $2`, companyID, plate)
}

func (r *VehicleRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

// List devuelve los vehículos que cumplen el filtro, ordenados por ID.
func (r *VehicleRepo) List(ctx context.Context, filter repository.VehicleFilter) ([]*entity.Vehicle, error) {
	var (
		where []string
		args  []any
	)
	if filter.CompanyID != "" {
		if !entity.ValidID(filter.CompanyID) {
			return []*entity.Vehicle{}, nil
		}
		args = append(args, filter.CompanyID)
		where = append(where, fmt.Sprintf("company_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// ExistsRegistrationNumber informa si el número RENAVE ya está asignado en el sistema.
func (r *VehicleRepo) ExistsRegistrationNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vehicles WHERE registration_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration number: %w", err)
	}
	return exists, nil
}

// SetRegistrationNumber asigna el número solo si la fila aún no tiene uno.
func (r *VehicleRepo) SetRegistrationNumber(ctx context.Context, id, number string) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE vehicles SET registration_number = $2, updated_at = now()
		 WHERE id = $1 AND registration_number IS NULL`,
		id, number,
	)
	if err != nil {
		if isUniqueViolation(err, constraintRegistrationNumber) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("set registration number: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAlreadyRegistered
	}
	return nil
}

// MarkSold persiste la venta. La condición status = 'IN_STOCK' evita una segunda venta.
func (r *VehicleRepo) MarkSold(ctx context.Context, v *entity.Vehicle) error {
	var buyer entity.Buyer
	if v.Buyer != nil {
		buyer = *v.Buyer
	}
	cmd, err := r.db.Exec(ctx, `
		UPDATE vehicles
		   SET status = $2, sold_at = $3, buyer_name = $4, buyer_document = $5, buyer_address = $6,
		       sale_value = $7, updated_at = $8
		 WHERE id = $1 AND status = 'IN_STOCK'`,
		v.ID, v.Status, v.SoldAt, buyer.Name, buyer.Document, nullIfEmpty(buyer.Address),
		v.SaleValue, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("mark vehicle sold: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAlreadySold
	}
	return nil
}

// Delete borra el vehículo. Devuelve false si no existía.
func (r *VehicleRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !entity.ValidID(id) {
		return false, nil
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete vehicle: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func scanVehicle(row rowScanner) (*entity.Vehicle, error) {
	var (
		v                         entity.Vehicle
		year, buyerName, buyerDoc *string
		buyerAddress              *string
		saleValue                 decimal.NullDecimal
	)
	if err := row.Scan(
		&v.ID, &v.CompanyID, &v.Make, &v.Model, &year, &v.Plate, &v.Value, &v.Status, &v.RegistrationNumber,
		&v.EntryAt, &v.SoldAt, &buyerName, &buyerDoc, &buyerAddress, &saleValue, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if year != nil {
		v.Year = *year
	}
	if buyerName != nil || buyerDoc != nil {
		v.Buyer = &entity.Buyer{Name: deref(buyerName), Document: deref(buyerDoc), Address: deref(buyerAddress)}
	}
	if saleValue.Valid {
		sale := saleValue.Decimal
		v.SaleValue = &sale
	}
	return &v, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
