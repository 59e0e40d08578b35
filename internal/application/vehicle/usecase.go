package vehicle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/autogest-api/internal/application/dto"
	"github.com/jhoicas/autogest-api/internal/application/ports"
	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/domain/repository"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

// PlateScope alcance de la unicidad de placas.
type PlateScope string

const (
	PlateScopeTenant PlateScope = "tenant"
	PlateScopeGlobal PlateScope = "global"
)

// Config parámetros del registro de vehículos.
type Config struct {
	PlateScope  PlateScope
	Numbers     NumberGenerator
	MaxAttempts int
}

// UseCase registro de vehículos: ciclo de vida IN_STOCK → SOLD y número RENAVE,
// siempre dentro del alcance de empresa del llamador.
type UseCase struct {
	repo        repository.VehicleRepository
	companyRepo repository.CompanyRepository
	tx          TxRunner
	cfg         Config
	metrics     ports.Metrics
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso. Los campos vacíos de cfg toman valores por defecto.
func NewUseCase(
	repo repository.VehicleRepository,
	companyRepo repository.CompanyRepository,
	tx TxRunner,
	cfg Config,
	metrics ports.Metrics,
	log *logger.Logger,
) *UseCase {
	if cfg.PlateScope == "" {
		cfg.PlateScope = PlateScopeTenant
	}
	if cfg.Numbers == nil {
		cfg.Numbers = NewRandomNumberGenerator(DefaultPrefix, DefaultDigits)
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		repo:        repo,
		companyRepo: companyRepo,
		tx:          tx,
		cfg:         cfg,
		metrics:     metrics,
		log:         log.Named("vehicle"),
		now:         time.Now,
	}
}

// Create da de alta un vehículo IN_STOCK con fecha de entrada = ahora.
// SHOP_OPERATOR crea siempre en su empresa; MASTER usa company_id o su propia empresa.
func (uc *UseCase) Create(ctx context.Context, caller entity.Caller, in dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	if !caller.Allows(entity.OpVehicleWrite) {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	companyID, err := uc.targetCompany(ctx, caller, in.CompanyID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	v := &entity.Vehicle{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Make:      in.Make,
		Model:     in.Model,
		Year:      in.Year,
		Plate:     in.Plate,
		Value:     *in.Value,
		Status:    entity.VehicleStatusInStock,
		EntryAt:   now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// La base solo garantiza (company_id, plate); en modo global el lock cubre la búsqueda y el alta.
	err = uc.tx.Run(ctx, func(repo repository.VehicleRepository) error {
		plateCompany := companyID
		if uc.cfg.PlateScope == PlateScopeGlobal {
			plateCompany = ""
			if err := repo.LockPlate(ctx, in.Plate); err != nil {
				return err
			}
		}
		existing, err := repo.FindByPlate(ctx, plateCompany, in.Plate)
		if err != nil {
			return fmt.Errorf("vehicle: buscar placa: %w", err)
		}
		if existing != nil {
			return domain.ErrDuplicatePlate
		}
		return repo.Create(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.VehicleEvent(ports.EventVehicleCreated)
	uc.log.Info().Str("vehicle_id", v.ID).Str("company_id", companyID).Str("plate", v.Plate).Msg("vehículo creado")
	return dto.ToVehicleResponse(v), nil
}

// List devuelve los vehículos visibles para el llamador, ordenados por ID.
func (uc *UseCase) List(ctx context.Context, caller entity.Caller, in dto.ListVehiclesRequest) (*dto.VehicleListResponse, error) {
	if !caller.Allows(entity.OpVehicleRead) {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	scope, ok := entity.ScopeFor(caller, in.CompanyID)
	if !ok {
		return nil, domain.ErrForbidden
	}
	list, err := uc.repo.List(ctx, repository.VehicleFilter{CompanyID: scope.FilterCompanyID(), Status: in.Status})
	if err != nil {
		return nil, fmt.Errorf("vehicle: listar: %w", err)
	}
	items := make([]dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *dto.ToVehicleResponse(v))
	}
	return &dto.VehicleListResponse{Items: items, Total: len(items)}, nil
}

// Get devuelve un vehículo. Inexistente y de otra empresa devuelven el mismo ErrNotFound.
func (uc *UseCase) Get(ctx context.Context, caller entity.Caller, id string) (*dto.VehicleResponse, error) {
	v, err := uc.Find(ctx, caller, entity.OpVehicleRead, id)
	if err != nil {
		return nil, err
	}
	return dto.ToVehicleResponse(v), nil
}

// Find carga la entidad comprobando capacidad y alcance. La usan también los generadores de documentos.
func (uc *UseCase) Find(ctx context.Context, caller entity.Caller, op entity.Operation, id string) (*entity.Vehicle, error) {
	if !caller.Allows(op) {
		return nil, domain.ErrForbidden
	}
	scope, ok := entity.ScopeFor(caller, "")
	if !ok {
		return nil, domain.ErrForbidden
	}
	if !entity.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("vehicle: obtener: %w", err)
	}
	if v == nil || !scope.Contains(v.CompanyID) {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

// IssueRegistrationNumber asigna el número RENAVE una única vez.
// Lectura, verificación y escritura ocurren bajo el bloqueo de la fila.
func (uc *UseCase) IssueRegistrationNumber(ctx context.Context, caller entity.Caller, id string) (*dto.RegistrationResponse, error) {
	if !caller.Allows(entity.OpVehicleWrite) {
		return nil, domain.ErrForbidden
	}
	scope, ok := entity.ScopeFor(caller, "")
	if !ok {
		return nil, domain.ErrForbidden
	}
	if !entity.ValidID(id) {
		return nil, domain.ErrNotFound
	}

	var number string
	issue := func(repo repository.VehicleRepository) error {
		v, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("vehicle: bloquear: %w", err)
		}
		if v == nil || !scope.Contains(v.CompanyID) {
			return domain.ErrNotFound
		}
		if v.IsRegistered() {
			return domain.ErrAlreadyRegistered
		}
		number, err = uc.uniqueNumber(ctx, repo)
		if err != nil {
			return err
		}
		return repo.SetRegistrationNumber(ctx, v.ID, number)
	}
	// Otra tx pudo ocupar el número entre la verificación y el UPDATE: la tx quedó abortada
	// por el constraint, así que se reintenta entera con un candidato nuevo.
	var err error
	for attempt := 1; ; attempt++ {
		err = uc.tx.Run(ctx, issue)
		if !errors.Is(err, domain.ErrDuplicate) {
			break
		}
		if attempt >= uc.cfg.MaxAttempts {
			return nil, fmt.Errorf("vehicle: sin número RENAVE libre tras %d transacciones", attempt)
		}
		uc.log.Warn().Int("attempt", attempt).Str("vehicle_id", id).Msg("número RENAVE tomado por otra transacción, reintentando")
	}
	if err != nil {
		return nil, err
	}
	uc.metrics.VehicleEvent(ports.EventVehicleRegistered)
	uc.log.Info().Str("vehicle_id", id).Str("registration_number", number).Msg("número RENAVE emitido")
	return &dto.RegistrationResponse{VehicleID: id, RegistrationNumber: number}, nil
}

// uniqueNumber genera candidatos hasta encontrar uno libre en todo el sistema.
func (uc *UseCase) uniqueNumber(ctx context.Context, repo repository.VehicleRepository) (string, error) {
	for attempt := 1; attempt <= uc.cfg.MaxAttempts; attempt++ {
		candidate, err := uc.cfg.Numbers.Next()
		if err != nil {
			return "", err
		}
		exists, err := repo.ExistsRegistrationNumber(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("vehicle: verificar número: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		uc.log.Warn().Int("attempt", attempt).Msg("colisión de número RENAVE, reintentando")
	}
	return "", fmt.Errorf("vehicle: sin número RENAVE libre tras %d intentos", uc.cfg.MaxAttempts)
}

// Sell aplica la transición IN_STOCK → SOLD. Es terminal: un segundo intento devuelve ErrAlreadySold.
func (uc *UseCase) Sell(ctx context.Context, caller entity.Caller, id string, in dto.SellVehicleRequest) (*dto.VehicleResponse, error) {
	if !caller.Allows(entity.OpVehicleWrite) {
		return nil, domain.ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	scope, ok := entity.ScopeFor(caller, "")
	if !ok {
		return nil, domain.ErrForbidden
	}
	if !entity.ValidID(id) {
		return nil, domain.ErrNotFound
	}

	var sold *entity.Vehicle
	err := uc.tx.Run(ctx, func(repo repository.VehicleRepository) error {
		v, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("vehicle: bloquear: %w", err)
		}
		if v == nil || !scope.Contains(v.CompanyID) {
			return domain.ErrNotFound
		}
		if v.IsSold() {
			return domain.ErrAlreadySold
		}
		v.MarkSold(entity.Buyer{
			Name:     in.BuyerName,
			Document: in.BuyerDocument,
			Address:  in.BuyerAddress,
		}, *in.SaleValue, uc.now())
		if err := repo.MarkSold(ctx, v); err != nil {
			return err
		}
		sold = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.VehicleEvent(ports.EventVehicleSold)
	uc.log.Info().Str("vehicle_id", id).Str("sale_value", in.SaleValue.String()).Msg("vehículo vendido")
	return dto.ToVehicleResponse(sold), nil
}

// Delete borra el vehículo de forma definitiva.
func (uc *UseCase) Delete(ctx context.Context, caller entity.Caller, id string) (*dto.DeleteResponse, error) {
	v, err := uc.Find(ctx, caller, entity.OpVehicleWrite, id)
	if err != nil {
		return nil, err
	}
	deleted, err := uc.repo.Delete(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("vehicle: borrar: %w", err)
	}
	if !deleted {
		return nil, domain.ErrNotFound
	}
	uc.metrics.VehicleEvent(ports.EventVehicleDeleted)
	uc.log.Info().Str("vehicle_id", id).Str("company_id", v.CompanyID).Msg("vehículo borrado")
	return &dto.DeleteResponse{ID: id, Deleted: true}, nil
}

// targetCompany resuelve la empresa dueña de un vehículo nuevo.
func (uc *UseCase) targetCompany(ctx context.Context, caller entity.Caller, requested string) (string, error) {
	if caller.TenantScoped() {
		if caller.CompanyID() == "" {
			return "", domain.ErrForbidden
		}
		return caller.CompanyID(), nil
	}
	companyID := requested
	if companyID == "" {
		companyID = caller.CompanyID()
	}
	if companyID == "" {
		return "", fmt.Errorf("%w: company_id es requerido", domain.ErrInvalidInput)
	}
	if !entity.ValidID(companyID) {
		return "", fmt.Errorf("%w: company_id %q no es un UUID", domain.ErrInvalidInput, companyID)
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("vehicle: cargar empresa: %w", err)
	}
	if company == nil {
		return "", fmt.Errorf("%w: la empresa no existe", domain.ErrInvalidInput)
	}
	return companyID, nil
}
