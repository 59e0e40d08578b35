package entity

// Caller es el usuario autenticado de una petición junto con su empresa (nil para un MASTER sin empresa).
type Caller struct {
	User    *User
	Company *Company
}

// Allows delega en las capacidades del rol.
func (c Caller) Allows(op Operation) bool {
	return c.User != nil && c.User.Role.Allows(op)
}

// TenantScoped informa si todas las operaciones del llamador quedan restringidas a su empresa.
func (c Caller) TenantScoped() bool {
	return c.User == nil || c.User.Role.TenantScoped()
}

// CompanyID empresa propia del llamador ("" si no tiene).
func (c Caller) CompanyID() string {
	if c.User == nil {
		return ""
	}
	return c.User.CompanyID
}
