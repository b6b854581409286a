// Package store defines the persistence interfaces the services depend
// on. Implementations return copies, never internal pointers, so callers
// can only mutate through the defined operations.
package store

import "github.com/lverma/planora/internal/models"

// UserStore holds user records. Username and email are unique across
// all users at all times; Insert and Update enforce that.
type UserStore interface {
	FindByID(id string) (models.User, bool)
	// FindByIdentifier matches either username or email, exactly.
	FindByIdentifier(identifier string) (models.User, bool)
	FindByUsername(username string) (models.User, bool)
	FindByEmail(email string) (models.User, bool)
	List() []models.User
	Insert(u models.User) error
	Update(u models.User) error
	Delete(id string) bool
}

// ProjectStore holds project records.
type ProjectStore interface {
	FindByID(id string) (models.Project, bool)
	Exists(id string) bool
	List() []models.Project
	Insert(p models.Project)
}

// MembershipStore holds project-membership records keyed by the
// (projectID, userID) pair.
type MembershipStore interface {
	Find(projectID, userID string) (models.Membership, bool)
	ListByProject(projectID string) []models.Membership
	ListByUser(userID string) []models.Membership
	// Upsert inserts the membership or, when the pair already exists,
	// updates its project role. It reports whether a new record was
	// created.
	Upsert(m models.Membership) bool
	// DeleteByUser removes every membership of the user and returns
	// how many were removed.
	DeleteByUser(userID string) int
}

// InvitationStore holds invitation records.
type InvitationStore interface {
	FindByID(id string) (models.Invitation, bool)
	Insert(inv models.Invitation)
	Update(inv models.Invitation) error
}

// AppointmentStore holds appointment records.
type AppointmentStore interface {
	Find(projectID, id string) (models.Appointment, bool)
	ListByProject(projectID string) []models.Appointment
	Insert(a models.Appointment)
	Update(a models.Appointment) error
	Delete(projectID, id string) bool
}

// CommentStore holds comment records.
type CommentStore interface {
	Find(projectID, id string) (models.Comment, bool)
	ListByProject(projectID string) []models.Comment
	Insert(c models.Comment)
	Update(c models.Comment) error
	Delete(projectID, id string) bool
}

// SettingsStore holds the singleton connection-monitor settings.
type SettingsStore interface {
	Get() models.MonitorSettings
	Set(s models.MonitorSettings)
}

// Stores bundles every store for wiring.
type Stores struct {
	Users        UserStore
	Projects     ProjectStore
	Memberships  MembershipStore
	Invitations  InvitationStore
	Appointments AppointmentStore
	Comments     CommentStore
	Settings     SettingsStore
}
