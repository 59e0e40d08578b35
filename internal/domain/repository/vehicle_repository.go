package repository

import (
	"context"

	"github.com/jhoicas/autogest-api/internal/domain/entity"
)

// VehicleFilter criterios de listado. CompanyID vacío = todas las empresas; Status vacío = todos.
type VehicleFilter struct {
	CompanyID string
	Status    string
}

// VehicleRepository define el puerto de persistencia para Vehicle (usable con pool o tx).
// Los Get devuelven (nil, nil) si no existe; el filtrado por tenant es responsabilidad del caso de uso.
type VehicleRepository interface {
	Create(ctx context.Context, v *entity.Vehicle) error
	GetByID(ctx context.Context, id string) (*entity.Vehicle, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Vehicle, error)
	// LockPlate serializa hasta el fin de la transacción las altas con la misma placa en todo el sistema.
	LockPlate(ctx context.Context, plate string) error
	// FindByPlate busca por placa normalizada; companyID vacío busca en todo el sistema.
	FindByPlate(ctx context.Context, companyID, plate string) (*entity.Vehicle, error)
	// List devuelve los vehículos ordenados por ID.
	List(ctx context.Context, filter VehicleFilter) ([]*entity.Vehicle, error)
	ExistsRegistrationNumber(ctx context.Context, number string) (bool, error)
	// SetRegistrationNumber devuelve domain.ErrDuplicate si el número ya existe en el sistema.
	SetRegistrationNumber(ctx context.Context, id, number string) error
	MarkSold(ctx context.Context, v *entity.Vehicle) error
	// Delete devuelve false si no había fila que borrar.
	Delete(ctx context.Context, id string) (bool, error)
}
