package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/autogest-api/internal/application/dto"
	"github.com/jhoicas/autogest-api/internal/application/ports"
	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/domain/repository"
	"github.com/jhoicas/autogest-api/pkg/logger"
	"github.com/jhoicas/autogest-api/pkg/password"
)

// TokenService contrato del servicio de credenciales: emite tokens y los resuelve a un email.
// Resolve devuelve "" ante cualquier fallo, sin distinguir la causa.
type TokenService interface {
	Issue(email, role string) (string, error)
	Resolve(token string) string
}

// dummyHash se compara cuando el email no existe, para que ambos fallos tarden lo mismo.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z8yS0T1Z6vX1Yk5l9b0Yk4xW"

// AuthUseCase autenticación y resolución del llamador (Tenant & Identity Store).
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	tokens      TokenService
	metrics     ports.Metrics
	log         *logger.Logger
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	tokens TokenService,
	metrics ports.Metrics,
	log *logger.Logger,
) *AuthUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		tokens:      tokens,
		metrics:     metrics,
		log:         log.Named("auth"),
		now:         time.Now,
	}
}

// Authenticate verifica email/password y emite un token con sub=email.
// Campos vacíos, email desconocido y password incorrecta devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Authenticate(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := in.Validate(); err != nil {
		password.Verify(in.Password, dummyHash)
		uc.metrics.Login(ports.LoginInvalid)
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if user == nil {
		password.Verify(in.Password, dummyHash)
		uc.metrics.Login(ports.LoginInvalid)
		return nil, domain.ErrInvalidCredentials
	}
	if !password.Verify(in.Password, user.PasswordHash) {
		uc.metrics.Login(ports.LoginInvalid)
		return nil, domain.ErrInvalidCredentials
	}
	token, err := uc.tokens.Issue(user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth: emitir token: %w", err)
	}
	uc.metrics.Login(ports.LoginOK)
	uc.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login exitoso")
	return &dto.LoginResponse{
		Token:     token,
		TokenType: "bearer",
		Role:      string(user.Role),
		User:      *dto.ToUserResponse(user),
	}, nil
}

// ResolveCaller resuelve el token al usuario autenticado.
//   - ErrSessionExpired   si el token no resuelve o el usuario ya no existe.
//   - ErrTenantSuspended  si el usuario es SHOP_OPERATOR y su empresa no está activa (o vencida).
//
// El MASTER no pasa por la verificación de empresa.
func (uc *AuthUseCase) ResolveCaller(ctx context.Context, token string) (*entity.Caller, error) {
	email := uc.tokens.Resolve(strings.TrimSpace(token))
	if email == "" {
		return nil, domain.ErrSessionExpired
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: resolver usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrSessionExpired
	}

	caller := &entity.Caller{User: user}
	if user.HasCompany() {
		company, err := uc.companyRepo.GetByID(ctx, user.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("auth: cargar empresa: %w", err)
		}
		caller.Company = company
	}
	if user.Role.TenantScoped() && !caller.Company.IsActive(uc.now()) {
		uc.log.Warn().Str("user_id", user.ID).Str("company_id", user.CompanyID).Msg("acceso rechazado: empresa no activa")
		return nil, domain.ErrTenantSuspended
	}
	return caller, nil
}

// ProvisionMasterInput datos del MASTER de arranque. El password llega siempre desde fuera (flag/env).
type ProvisionMasterInput struct {
	Email     string
	Name      string
	Password  string
	CompanyID string // opcional
}

// ProvisionMaster crea el usuario MASTER si no existe. Si el email ya es de un MASTER no toca nada
// (nunca resetea credenciales) y devuelve created=false; si es de otro rol devuelve ErrEmailAlreadyExists.
func (uc *AuthUseCase) ProvisionMaster(ctx context.Context, in ProvisionMasterInput) (user *entity.User, created bool, err error) {
	req := dto.CreateUserRequest{
		CompanyID: in.CompanyID,
		Email:     in.Email,
		Password:  in.Password,
		Name:      in.Name,
		Role:      string(entity.RoleMaster),
	}
	if err := req.Validate(); err != nil {
		return nil, false, err
	}
	existing, err := uc.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, false, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if existing != nil {
		if existing.Role != entity.RoleMaster {
			uc.log.Warn().Str("email", existing.Email).Str("role", string(existing.Role)).Msg("el email pertenece a un usuario que no es MASTER")
			return nil, false, fmt.Errorf("%w: %s ya existe con rol %s", domain.ErrEmailAlreadyExists, existing.Email, existing.Role)
		}
		uc.log.Info().Str("email", existing.Email).Msg("MASTER ya existe, no se modifica")
		return existing, false, nil
	}
	if req.CompanyID != "" {
		company, err := uc.companyRepo.GetByID(ctx, req.CompanyID)
		if err != nil {
			return nil, false, fmt.Errorf("auth: cargar empresa: %w", err)
		}
		if company == nil {
			return nil, false, domain.ErrNotFound
		}
	}
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	now := uc.now()
	user = &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    req.CompanyID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         entity.RoleMaster,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("MASTER creado")
	return user, true, nil
}
