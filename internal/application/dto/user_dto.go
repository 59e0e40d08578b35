package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/autogest-api/internal/domain"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/pkg/password"
)

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate exige email y password no vacíos. Un campo vacío es una credencial inválida más:
// no se valida formato ni se distingue el motivo.
func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	if r.Email == "" || r.Password == "" {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// LoginResponse salida con token JWT y rol.
type LoginResponse struct {
	Token     string       `json:"access_token"`
	TokenType string       `json:"token_type"`
	Role      string       `json:"role"`
	User      UserResponse `json:"user"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	CompanyID string `json:"company_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

// Validate normaliza y valida la entrada. SHOP_OPERATOR exige company_id.
func (r *CreateUserRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.CompanyID = strings.TrimSpace(r.CompanyID)
	if r.Role == "" {
		r.Role = string(entity.RoleShopOperator)
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(r.Password) < password.MinLength {
		return fmt.Errorf("%w: password debe tener al menos %d caracteres", domain.ErrInvalidInput, password.MinLength)
	}
	if r.Name == "" {
		r.Name = r.Email
	}
	role := entity.Role(r.Role)
	if !role.Valid() {
		return fmt.Errorf("%w: role debe ser MASTER o SHOP_OPERATOR", domain.ErrInvalidInput)
	}
	if role.TenantScoped() && r.CompanyID == "" {
		return fmt.Errorf("%w: company_id es requerido para %s", domain.ErrInvalidInput, role)
	}
	return nil
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ToUserResponse convierte la entidad en su representación pública.
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NormalizeEmail recorta y pasa a minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MeResponse usuario autenticado y su empresa.
type MeResponse struct {
	User    UserResponse     `json:"user"`
	Company *CompanyResponse `json:"company,omitempty"`
}

// ToMeResponse arma la respuesta de /auth/me.
func ToMeResponse(c entity.Caller) MeResponse {
	out := MeResponse{Company: ToCompanyResponse(c.Company)}
	if u := ToUserResponse(c.User); u != nil {
		out.User = *u
	}
	return out
}
