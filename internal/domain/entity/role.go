package entity

// Role es el conjunto cerrado de perfiles del sistema.
type Role string

const (
	RoleMaster       Role = "MASTER"
	RoleShopOperator Role = "SHOP_OPERATOR"
)

// Operation identifica una capacidad que un rol puede tener.
type Operation string

const (
	OpVehicleRead       Operation = "vehicle.read"
	OpVehicleWrite      Operation = "vehicle.write"
	OpDashboardRead     Operation = "dashboard.read"
	OpCertificateRender Operation = "certificate.render"
	OpCompanyManage     Operation = "company.manage"
	OpUserManage        Operation = "user.manage"
)

type capabilities struct {
	tenantScoped bool
	allowed      map[Operation]bool
}

var roleCapabilities = map[Role]capabilities{
	RoleMaster: {
		tenantScoped: false,
		allowed: map[Operation]bool{
			OpVehicleRead:       true,
			OpVehicleWrite:      true,
			OpDashboardRead:     true,
			OpCertificateRender: true,
			OpCompanyManage:     true,
			OpUserManage:        true,
		},
	},
	RoleShopOperator: {
		tenantScoped: true,
		allowed: map[Operation]bool{
			OpVehicleRead:       true,
			OpVehicleWrite:      true,
			OpDashboardRead:     true,
			OpCertificateRender: true,
		},
	},
}

// Valid informa si el rol pertenece al conjunto cerrado.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Allows informa si el rol tiene la capacidad op. Un rol desconocido no tiene ninguna.
func (r Role) Allows(op Operation) bool {
	return roleCapabilities[r].allowed[op]
}

// TenantScoped informa si el rol queda restringido a su propia empresa.
// Un rol desconocido se trata como restringido.
func (r Role) TenantScoped() bool {
	c, ok := roleCapabilities[r]
	if !ok {
		return true
	}
	return c.tenantScoped
}
