// Package invitations implements the invitation lifecycle: an admin
// invites an email address, the invitee accepts once, and the accept
// atomically creates the user plus an optional project membership.
package invitations

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lverma/planora/internal/apperrors"
	"github.com/lverma/planora/internal/id"
	"github.com/lverma/planora/internal/logger"
	"github.com/lverma/planora/internal/models"
	"github.com/lverma/planora/internal/store"
	"github.com/lverma/planora/pkg/utils"
)

// Service manages invitations.
type Service struct {
	invitations store.InvitationStore
	users       store.UserStore
	projects    store.ProjectStore
	memberships store.MembershipStore
	ids         id.Generator
	now         func() time.Time
	log         *logger.Logger

	// locks serializes Accept per invitation id so concurrent accepts
	// of the same invitation yield exactly one success.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates an invitation service.
func NewService(stores *store.Stores, ids id.Generator, log *logger.Logger) *Service {
	return &Service{
		invitations: stores.Invitations,
		users:       stores.Users,
		projects:    stores.Projects,
		memberships: stores.Memberships,
		ids:         ids,
		now:         time.Now,
		log:         log,
		locks:       make(map[string]*sync.Mutex),
	}
}

// Create validates and stores a PENDING invitation. There is no
// duplicate-pending check and no expiry; invitations stay open until
// accepted. In a full system this would also enqueue a notification
// email; the prototype only records the invitation.
func (s *Service) Create(email string, role models.InvitationRole, projectID string) (models.Invitation, error) {
	if strings.TrimSpace(email) == "" {
		return models.Invitation{}, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	if !models.ValidInvitationRole(role) {
		return models.Invitation{}, fmt.Errorf("%w: role must be 'admin' or 'end_user'", apperrors.ErrValidation)
	}
	if projectID != "" && !s.projects.Exists(projectID) {
		return models.Invitation{}, fmt.Errorf("%w: projectId does not exist", apperrors.ErrValidation)
	}

	inv := models.Invitation{
		ID:        s.ids.NewID(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      role,
		ProjectID: projectID,
		Status:    models.InvitationPending,
		CreatedAt: s.now().UTC(),
	}
	s.invitations.Insert(inv)

	s.log.Info("Invitation created", "invitation_id", inv.ID, "project_id", projectID)
	return inv, nil
}

// AcceptParams carries the invitee's registration details.
type AcceptParams struct {
	InvitationID string
	Username     string
	Password     string
	FirstName    string
	LastName     string
}

// Accept consumes a PENDING invitation: it creates the user with the
// invitation's email and mapped global role, adds the project
// membership when the invitation targets a project, and marks the
// invitation ACCEPTED. The whole sequence runs under a per-invitation
// lock, so either everything happens or nothing does, and a second
// accept of the same invitation always fails with a conflict.
func (s *Service) Accept(params AcceptParams) (string, error) {
	lock := s.invitationLock(params.InvitationID)
	lock.Lock()
	defer lock.Unlock()

	inv, ok := s.invitations.FindByID(params.InvitationID)
	if !ok {
		return "", fmt.Errorf("%w: invitation", apperrors.ErrNotFound)
	}
	if inv.Status != models.InvitationPending {
		return "", fmt.Errorf("%w: invitation already used or invalid", apperrors.ErrConflict)
	}
	if _, taken := s.users.FindByUsername(params.Username); taken {
		return "", fmt.Errorf("%w: username already taken", apperrors.ErrConflict)
	}
	if _, taken := s.users.FindByEmail(inv.Email); taken {
		return "", fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	}

	hash, err := utils.HashPassword(params.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           s.ids.NewID(),
		Username:     params.Username,
		Email:        inv.Email,
		Role:         models.GlobalRoleFromInvitationRole(inv.Role),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PasswordHash: hash,
	}
	if err := s.users.Insert(user); err != nil {
		return "", err
	}

	// The invitee does not choose the project role: admins manage,
	// everyone else develops.
	if inv.ProjectID != "" {
		projectRole := models.ProjectRoleDeveloper
		if user.Role == models.RoleAdmin {
			projectRole = models.ProjectRoleManager
		}
		s.memberships.Upsert(models.Membership{
			ProjectID:   inv.ProjectID,
			UserID:      user.ID,
			ProjectRole: projectRole,
		})
	}

	acceptedAt := s.now().UTC()
	inv.Status = models.InvitationAccepted
	inv.AcceptedAt = &acceptedAt
	if err := s.invitations.Update(inv); err != nil {
		return "", err
	}

	s.log.Info("Invitation accepted", "invitation_id", inv.ID, "user_id", user.ID)
	return user.ID, nil
}

func (s *Service) invitationLock(invitationID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[invitationID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[invitationID] = lock
	}
	return lock
}
