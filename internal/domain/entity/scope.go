package entity

// Scope conjunto de empresas visibles para una operación.
// All solo lo obtiene un MASTER que no pidió una empresa concreta.
type Scope struct {
	CompanyID string
	All       bool
}

// ScopeFor deriva el alcance del llamador. Un llamador restringido siempre queda
// en su propia empresa (requested se ignora); un MASTER usa requested o, si viene vacío, todas.
// Devuelve ok=false si el llamador restringido no tiene empresa.
func ScopeFor(c Caller, requested string) (Scope, bool) {
	if c.TenantScoped() {
		if c.CompanyID() == "" {
			return Scope{}, false
		}
		return Scope{CompanyID: c.CompanyID()}, true
	}
	if requested == "" {
		return Scope{All: true}, true
	}
	return Scope{CompanyID: requested}, true
}

// Contains informa si un recurso de companyID queda dentro del alcance.
func (s Scope) Contains(companyID string) bool {
	return s.All || (s.CompanyID != "" && s.CompanyID == companyID)
}

// FilterCompanyID valor para filtros de repositorio ("" = todas).
func (s Scope) FilterCompanyID() string {
	if s.All {
		return ""
	}
	return s.CompanyID
}
