package entities

// Role representa o papel de um usuário no sistema
type Role string

const (
	RoleUser              Role = "user"
	RolePendingVolunteer  Role = "pending_volunteer"
	RoleVerifiedVolunteer Role = "verified_volunteer"
	RoleAdmin             Role = "admin"
)

// AllRoles lista o conjunto fechado de papéis persistíveis
var AllRoles = []Role{
	RoleUser,
	RolePendingVolunteer,
	RoleVerifiedVolunteer,
	RoleAdmin,
}

// IsValid verifica se o papel pertence ao conjunto fechado
func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ParseRole converte uma string em Role validando o valor
func ParseRole(value string) (Role, bool) {
	role := Role(value)
	return role, role.IsValid()
}

// In verifica se o papel está contido no conjunto informado
func (r Role) In(roles ...Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
