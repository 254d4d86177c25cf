package enums

// UserRole is the platform-wide access level of a principal. Callers with no
// assignment are treated as guests.
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
	UserRoleGuest UserRole = "guest"
)

var userRoles = closedSet[UserRole]{UserRoleAdmin, UserRoleUser, UserRoleGuest}

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool { return userRoles.has(r) }

func ParseUserRole(value string) (UserRole, error) {
	return userRoles.parse("user role", value)
}
