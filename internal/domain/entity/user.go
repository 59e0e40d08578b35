package entity

import "time"

// User representa un usuario del sistema. CompanyID vacío solo para el MASTER de arranque.
type User struct {
	ID           string
	CompanyID    string
	Name         string
	Email        string // único en todo el sistema, en minúsculas
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasCompany informa si el usuario está atado a una empresa.
func (u *User) HasCompany() bool {
	return u != nil && u.CompanyID != ""
}
