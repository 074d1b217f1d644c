package models

// Role is a position in the newsroom hierarchy.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
	RoleJournalist Role = "journalist"
	RoleAudience   Role = "audience"
)

var knownRoles = map[Role]bool{
	RoleSuperAdmin: true,
	RoleAdmin:      true,
	RoleEditor:     true,
	RoleJournalist: true,
	RoleAudience:   true,
}

// mayCreate is the only place the account creation hierarchy is defined.
// Audience accounts are self-registered and have no creator.
var mayCreate = map[Role]Role{
	RoleSuperAdmin: RoleAdmin,
	RoleAdmin:      RoleEditor,
	RoleEditor:     RoleJournalist,
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return knownRoles[r]
}

// CanCreate reports whether a caller with role r may create an account with role target.
func (r Role) CanCreate(target Role) bool {
	allowed, ok := mayCreate[r]
	return ok && allowed == target
}

// Actor is the authenticated caller a service call is made on behalf of.
type Actor struct {
	ID       uint
	Username string
	Role     Role
}

// Is reports whether the actor holds one of the given roles.
func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
