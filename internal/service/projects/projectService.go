package projectService

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/lverma/planora/internal/authz"
	"github.com/lverma/planora/internal/id"
	"github.com/lverma/planora/internal/logger"
	"github.com/lverma/planora/internal/middleware"
	"github.com/lverma/planora/internal/models"
	"github.com/lverma/planora/internal/store"
)

// ProjectService handles project-related operations.
type ProjectService struct {
	projects    store.ProjectStore
	memberships store.MembershipStore
	authz       *authz.Engine
	ids         id.Generator
	Log         *logger.Logger
}

// CreateProjectRequest represents the request body for project creation.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Type        string `json:"type"`
}

// AddMemberRequest represents the request body for membership upserts.
type AddMemberRequest struct {
	UserID      string `json:"userId"`
	ProjectRole string `json:"projectRole"`
}

// NewProjectService initializes a new project service.
func NewProjectService(stores *store.Stores, engine *authz.Engine, ids id.Generator, log *logger.Logger) *ProjectService {
	return &ProjectService{
		projects:    stores.Projects,
		memberships: stores.Memberships,
		authz:       engine,
		ids:         ids,
		Log:         log,
	}
}

// ListProjects handles GET /projects (admin only, enforced by the route).
func (ps *ProjectService) ListProjects(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, ps.projects.List())
}

// MyProjects handles GET /projects/mine. Admins see all projects, end
// users only the projects they are a member of.
func (ps *ProjectService) MyProjects(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if identity.Role == models.RoleAdmin {
		respondWithJSON(w, http.StatusOK, ps.projects.List())
		return
	}

	respondWithJSON(w, http.StatusOK, ps.accessibleProjects(identity.UserID))
}

// SearchProjects handles GET /projects/search?query= over the caller's
// accessible projects, matching name or description substrings.
func (ps *ProjectService) SearchProjects(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query is required")
		return
	}

	accessible := ps.projects.List()
	if identity.Role != models.RoleAdmin {
		accessible = ps.accessibleProjects(identity.UserID)
	}

	results := []models.Project{}
	for _, p := range accessible {
		if strings.Contains(strings.ToLower(p.Name), query) || strings.Contains(strings.ToLower(p.Description), query) {
			results = append(results, p)
		}
	}
	respondWithJSON(w, http.StatusOK, results)
}

// GetProject handles GET /projects/{id} for admins and members.
func (ps *ProjectService) GetProject(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	project, ok := ps.projects.FindByID(mux.Vars(r)["id"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !ps.authz.CanAccessProject(identity, project.ID) {
		ps.Log.Warn("Unauthorized project access attempt", "project_id", project.ID, "user_id", identity.UserID)
		respondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	respondWithJSON(w, http.StatusOK, project)
}

// ProjectAnalysis handles GET /projects/{projectId}/analysis.
func (ps *ProjectService) ProjectAnalysis(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	project, ok := ps.projects.FindByID(mux.Vars(r)["projectId"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return
	}
	if !ps.authz.CanAccessProject(identity, project.ID) {
		respondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"projectId": project.ID,
		"summary":   "Prototype analysis",
		"metrics": map[string]interface{}{
			"members": len(ps.memberships.ListByProject(project.ID)),
			"status":  project.Status,
			"type":    project.Type,
		},
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

// CreateProject handles POST /projects (admin only, enforced by the route).
func (ps *ProjectService) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondWithError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Status == "" {
		req.Status = "ACTIVE"
	}
	if req.Type == "" {
		req.Type = "INTERNAL"
	}

	project := models.Project{
		ID:          ps.ids.NewID(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      req.Status,
		Type:        req.Type,
	}
	ps.projects.Insert(project)

	ps.Log.Info("Project created", "project_id", project.ID)
	respondWithJSON(w, http.StatusCreated, project)
}

// AddMember handles POST /projects/{id}/members (admin only, enforced
// by the route). Re-adding an existing (project, user) pair updates the
// role instead of duplicating the record.
func (ps *ProjectService) AddMember(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]
	if !ps.projects.Exists(projectID) {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.ProjectRole == "" {
		respondWithError(w, http.StatusBadRequest, "userId and projectRole are required")
		return
	}
	role := models.ProjectRole(req.ProjectRole)
	if !models.ValidProjectRole(role) {
		respondWithError(w, http.StatusBadRequest, "projectRole must be DEVELOPER or MANAGER")
		return
	}

	membership := models.Membership{ProjectID: projectID, UserID: req.UserID, ProjectRole: role}
	created := ps.memberships.Upsert(membership)

	ps.Log.Info("Membership upserted", "project_id", projectID, "member_id", req.UserID, "created", created)
	if created {
		respondWithJSON(w, http.StatusCreated, map[string]interface{}{"message": "Added membership", "membership": membership})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"message": "Updated membership", "membership": membership})
}

func (ps *ProjectService) accessibleProjects(userID string) []models.Project {
	memberOf := make(map[string]bool)
	for _, m := range ps.memberships.ListByUser(userID) {
		memberOf[m.ProjectID] = true
	}

	out := []models.Project{}
	for _, p := range ps.projects.List() {
		if memberOf[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// Helper functions for HTTP responses.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"message": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
