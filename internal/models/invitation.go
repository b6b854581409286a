package models

import "time"

// InvitationRole is the invitee's intended global role. Invitations use
// their own lowercase vocabulary, distinct from GlobalRole on purpose:
// the invite API predates the user entity naming and both are kept.
type InvitationRole string

const (
	InvitationRoleAdmin   InvitationRole = "admin"
	InvitationRoleEndUser InvitationRole = "end_user"
)

// ValidInvitationRole reports whether r is one of the known invitation roles.
func ValidInvitationRole(r InvitationRole) bool {
	return r == InvitationRoleAdmin || r == InvitationRoleEndUser
}

// GlobalRoleFromInvitationRole maps the invitation role vocabulary onto
// the user one. Anything unrecognized maps to END_USER so a malformed
// invitation can never escalate privilege.
func GlobalRoleFromInvitationRole(r InvitationRole) GlobalRole {
	if r == InvitationRoleAdmin {
		return RoleAdmin
	}
	return RoleEndUser
}

// InvitationStatus is the lifecycle status of an invitation.
// PENDING -> ACCEPTED is the only transition and it is one-way.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
)

// Invitation is a pending grant allowing one person to self-register as
// a specific global role, optionally pre-joined to a project.
type Invitation struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	Role       InvitationRole   `json:"role"`
	ProjectID  string           `json:"projectId,omitempty"`
	Status     InvitationStatus `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`
	AcceptedAt *time.Time       `json:"acceptedAt,omitempty"`
}
