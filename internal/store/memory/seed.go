package memory

import (
	"github.com/lverma/planora/internal/models"
	"github.com/lverma/planora/internal/store"
	"github.com/lverma/planora/pkg/utils"
)

// Seed loads the prototype fixtures: an admin and a developer account
// (password "Test1234!"), two projects and the developer's memberships.
func Seed(s *store.Stores) error {
	hash, err := utils.HashPassword("Test1234!")
	if err != nil {
		return err
	}

	users := []models.User{
		{
			ID:           "u1",
			Username:     "admin",
			Email:        "admin@example.com",
			Role:         models.RoleAdmin,
			FirstName:    "Admin",
			LastName:     "User",
			PasswordHash: hash,
		},
		{
			ID:           "u2",
			Username:     "dev",
			Email:        "dev@example.com",
			Role:         models.RoleEndUser,
			FirstName:    "Dev",
			LastName:     "User",
			PasswordHash: hash,
		},
	}
	for _, u := range users {
		if err := s.Users.Insert(u); err != nil {
			return err
		}
	}

	s.Projects.Insert(models.Project{
		ID:          "p1",
		Name:        "Smart-Rent",
		Description: "Prototype rental platform",
		Status:      "ACTIVE",
		Type:        "INTERNAL",
	})
	s.Projects.Insert(models.Project{
		ID:          "p2",
		Name:        "Bat Tracking",
		Description: "CV pipeline prototype",
		Status:      "ACTIVE",
		Type:        "RESEARCH",
	})

	s.Memberships.Upsert(models.Membership{ProjectID: "p1", UserID: "u2", ProjectRole: models.ProjectRoleDeveloper})
	s.Memberships.Upsert(models.Membership{ProjectID: "p2", UserID: "u2", ProjectRole: models.ProjectRoleManager})

	return nil
}
