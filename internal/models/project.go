package models

// Project represents a project entity.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Type        string `json:"type"`
}

// ProjectRole is the role a user holds within a single project.
type ProjectRole string

const (
	ProjectRoleManager   ProjectRole = "MANAGER"
	ProjectRoleDeveloper ProjectRole = "DEVELOPER"
)

// ValidProjectRole reports whether r is one of the known project roles.
func ValidProjectRole(r ProjectRole) bool {
	return r == ProjectRoleManager || r == ProjectRoleDeveloper
}

// Membership grants a user a role within a project. The pair
// (ProjectID, UserID) is unique; re-adding a pair updates the role.
type Membership struct {
	ProjectID   string      `json:"projectId"`
	UserID      string      `json:"userId"`
	ProjectRole ProjectRole `json:"projectRole"`
}
