// Package memory implements the store interfaces with in-memory record
// slices scanned linearly, each guarded by a RWMutex. Reads may run
// concurrently; writes are exclusive per store.
package memory

import (
	"fmt"
	"sync"

	"github.com/lverma/planora/internal/apperrors"
	"github.com/lverma/planora/internal/models"
	"github.com/lverma/planora/internal/store"
)

// NewStores creates empty in-memory stores.
func NewStores() *store.Stores {
	return &store.Stores{
		Users:        &UserStore{},
		Projects:     &ProjectStore{},
		Memberships:  &MembershipStore{},
		Invitations:  &InvitationStore{},
		Appointments: &AppointmentStore{},
		Comments:     &CommentStore{},
		Settings: &SettingsStore{settings: models.MonitorSettings{
			Enabled:            true,
			IntervalSeconds:    60,
			NotifyOnDisconnect: true,
		}},
	}
}

// UserStore is the in-memory user collection.
type UserStore struct {
	mu    sync.RWMutex
	users []models.User
}

func (s *UserStore) FindByID(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *UserStore) FindByIdentifier(identifier string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *UserStore) FindByUsername(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *UserStore) FindByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *UserStore) List() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// Insert adds a new user, rejecting duplicate ids, usernames or emails.
func (s *UserStore) Insert(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.ID == u.ID {
			return fmt.Errorf("%w: user id %q already exists", apperrors.ErrConflict, u.ID)
		}
		if existing.Username == u.Username {
			return fmt.Errorf("%w: username already taken", apperrors.ErrConflict)
		}
		if existing.Email == u.Email {
			return fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
		}
	}
	s.users = append(s.users, u)
	return nil
}

// Update replaces the stored record matching u.ID, keeping the
// uniqueness invariant against the other users.
func (s *UserStore) Update(u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, existing := range s.users {
		if existing.ID == u.ID {
			idx = i
			continue
		}
		if existing.Username == u.Username {
			return fmt.Errorf("%w: username already taken", apperrors.ErrConflict)
		}
		if existing.Email == u.Email {
			return fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: user %q", apperrors.ErrNotFound, u.ID)
	}
	s.users[idx] = u
	return nil
}

func (s *UserStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return true
		}
	}
	return false
}

// ProjectStore is the in-memory project collection.
type ProjectStore struct {
	mu       sync.RWMutex
	projects []models.Project
}

func (s *ProjectStore) FindByID(id string) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

func (s *ProjectStore) Exists(id string) bool {
	_, ok := s.FindByID(id)
	return ok
}

func (s *ProjectStore) List() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

func (s *ProjectStore) Insert(p models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, p)
}

// MembershipStore is the in-memory membership collection.
type MembershipStore struct {
	mu      sync.RWMutex
	members []models.Membership
}

func (s *MembershipStore) Find(projectID, userID string) (models.Membership, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.ProjectID == projectID && m.UserID == userID {
			return m, true
		}
	}
	return models.Membership{}, false
}

func (s *MembershipStore) ListByProject(projectID string) []models.Membership {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Membership
	for _, m := range s.members {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out
}

func (s *MembershipStore) ListByUser(userID string) []models.Membership {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Membership
	for _, m := range s.members {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out
}

func (s *MembershipStore) Upsert(m models.Membership) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.members {
		if existing.ProjectID == m.ProjectID && existing.UserID == m.UserID {
			s.members[i].ProjectRole = m.ProjectRole
			return false
		}
	}
	s.members = append(s.members, m)
	return true
}

func (s *MembershipStore) DeleteByUser(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.members[:0]
	removed := 0
	for _, m := range s.members {
		if m.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	s.members = kept
	return removed
}

// InvitationStore is the in-memory invitation collection.
type InvitationStore struct {
	mu          sync.RWMutex
	invitations []models.Invitation
}

func (s *InvitationStore) FindByID(id string) (models.Invitation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invitations {
		if inv.ID == id {
			return inv, true
		}
	}
	return models.Invitation{}, false
}

func (s *InvitationStore) Insert(inv models.Invitation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invitations = append(s.invitations, inv)
}

func (s *InvitationStore) Update(inv models.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.invitations {
		if existing.ID == inv.ID {
			s.invitations[i] = inv
			return nil
		}
	}
	return fmt.Errorf("%w: invitation %q", apperrors.ErrNotFound, inv.ID)
}

// AppointmentStore is the in-memory appointment collection.
type AppointmentStore struct {
	mu           sync.RWMutex
	appointments []models.Appointment
}

func (s *AppointmentStore) Find(projectID, id string) (models.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appointments {
		if a.ProjectID == projectID && a.ID == id {
			return a, true
		}
	}
	return models.Appointment{}, false
}

func (s *AppointmentStore) ListByProject(projectID string) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Appointment
	for _, a := range s.appointments {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out
}

func (s *AppointmentStore) Insert(a models.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, a)
}

func (s *AppointmentStore) Update(a models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.appointments {
		if existing.ProjectID == a.ProjectID && existing.ID == a.ID {
			s.appointments[i] = a
			return nil
		}
	}
	return fmt.Errorf("%w: appointment %q", apperrors.ErrNotFound, a.ID)
}

func (s *AppointmentStore) Delete(projectID, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.appointments {
		if a.ProjectID == projectID && a.ID == id {
			s.appointments = append(s.appointments[:i], s.appointments[i+1:]...)
			return true
		}
	}
	return false
}

// CommentStore is the in-memory comment collection.
type CommentStore struct {
	mu       sync.RWMutex
	comments []models.Comment
}

func (s *CommentStore) Find(projectID, id string) (models.Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.comments {
		if c.ProjectID == projectID && c.ID == id {
			return c, true
		}
	}
	return models.Comment{}, false
}

func (s *CommentStore) ListByProject(projectID string) []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out
}

func (s *CommentStore) Insert(c models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, c)
}

func (s *CommentStore) Update(c models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.comments {
		if existing.ProjectID == c.ProjectID && existing.ID == c.ID {
			s.comments[i] = c
			return nil
		}
	}
	return fmt.Errorf("%w: comment %q", apperrors.ErrNotFound, c.ID)
}

func (s *CommentStore) Delete(projectID, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.comments {
		if c.ProjectID == projectID && c.ID == id {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return true
		}
	}
	return false
}

// SettingsStore holds the connection-monitor settings singleton.
type SettingsStore struct {
	mu       sync.RWMutex
	settings models.MonitorSettings
}

func (s *SettingsStore) Get() models.MonitorSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *SettingsStore) Set(settings models.MonitorSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}
