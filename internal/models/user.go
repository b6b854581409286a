package models

// GlobalRole is the system-wide role of a user account.
type GlobalRole string

const (
	RoleAdmin   GlobalRole = "ADMIN"
	RoleEndUser GlobalRole = "END_USER"
)

// ValidGlobalRole reports whether r is one of the known global roles.
func ValidGlobalRole(r GlobalRole) bool {
	return r == RoleAdmin || r == RoleEndUser
}

// User represents a user account. PasswordHash is never serialized.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Role         GlobalRole `json:"role"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	PasswordHash string     `json:"-"`
}
