// Package authz enforces role-based access checks. Authentication (who
// the caller is) happens in the middleware; this package only answers
// what a verified identity may do.
package authz

import (
	"fmt"

	"github.com/lverma/planora/internal/apperrors"
	"github.com/lverma/planora/internal/auth"
	"github.com/lverma/planora/internal/models"
	"github.com/lverma/planora/internal/store"
)

// Engine evaluates global-role and project-membership checks against
// the membership store.
type Engine struct {
	memberships store.MembershipStore
}

// NewEngine creates an authorization engine.
func NewEngine(memberships store.MembershipStore) *Engine {
	return &Engine{memberships: memberships}
}

// RequireGlobalRole fails with ErrForbidden unless the identity's
// global role is one of the allowed roles.
func (e *Engine) RequireGlobalRole(identity auth.Identity, allowed ...models.GlobalRole) error {
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: requires one of %v", apperrors.ErrForbidden, allowed)
}

// CanAccessProject reports whether the identity may view a project:
// ADMIN always may, everyone else needs a membership. The admin bypass
// is deliberate.
func (e *Engine) CanAccessProject(identity auth.Identity, projectID string) bool {
	if identity.Role == models.RoleAdmin {
		return true
	}
	_, ok := e.memberships.Find(projectID, identity.UserID)
	return ok
}

// RequireProjectRole looks up the caller's membership in the project
// and fails with ErrForbidden when there is none, or when allowed is
// non-empty and the membership's role is not listed. Empty allowed
// means any member passes. ADMIN gets no bypass here; callers combine
// this with RequireGlobalRole where an admin override is wanted.
func (e *Engine) RequireProjectRole(identity auth.Identity, projectID string, allowed ...models.ProjectRole) (models.Membership, error) {
	membership, ok := e.memberships.Find(projectID, identity.UserID)
	if !ok {
		return models.Membership{}, fmt.Errorf("%w: not a member of this project", apperrors.ErrForbidden)
	}
	if len(allowed) == 0 {
		return membership, nil
	}
	for _, role := range allowed {
		if membership.ProjectRole == role {
			return membership, nil
		}
	}
	return models.Membership{}, fmt.Errorf("%w: insufficient project role", apperrors.ErrForbidden)
}
