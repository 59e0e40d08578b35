package vehicle

import (
	"context"

	"github.com/jhoicas/autogest-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción. El repo recibido opera sobre esa transacción;
// si fn devuelve error se hace rollback, si no commit. La conexión se libera siempre.
type TxRunner interface {
	Run(ctx context.Context, fn func(repo repository.VehicleRepository) error) error
}

// NumberGenerator produce candidatos a número de registro RENAVE.
type NumberGenerator interface {
	Next() (string, error)
}
