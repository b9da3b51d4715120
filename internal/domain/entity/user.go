package entity

// Roles válidos para un actor del sistema.
const (
	RoleSuperAdmin     = "super_admin"
	RoleProjectManager = "project_manager"
	RoleProjectLead    = "project_lead"
	RoleProjectOwner   = "project_owner"
	RoleDeveloper      = "developer"
)

// Actor identidad autenticada que ejecuta una operación. Se pasa explícitamente
// a cada caso de uso; no existe un "usuario actual" global.
type Actor struct {
	ID   string
	Role string // ver constantes Role*
	Name string
}

// IsSuperAdmin indica si el actor tiene acceso total.
func (a Actor) IsSuperAdmin() bool { return a.Role == RoleSuperAdmin }
