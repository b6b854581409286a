package appointmentService

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/lverma/planora/internal/auth"
	"github.com/lverma/planora/internal/authz"
	"github.com/lverma/planora/internal/events"
	"github.com/lverma/planora/internal/id"
	"github.com/lverma/planora/internal/logger"
	"github.com/lverma/planora/internal/middleware"
	"github.com/lverma/planora/internal/models"
	"github.com/lverma/planora/internal/store"
)

// AppointmentService handles appointment operations within a project.
type AppointmentService struct {
	projects     store.ProjectStore
	appointments store.AppointmentStore
	authz        *authz.Engine
	ids          id.Generator
	hub          *events.Hub
	Log          *logger.Logger
}

// CreateAppointmentRequest represents the request body for creation.
type CreateAppointmentRequest struct {
	Title    string `json:"title"`
	StartAt  string `json:"startAt"`
	EndAt    string `json:"endAt"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// UpdateAppointmentRequest patches an appointment identified by ID.
type UpdateAppointmentRequest struct {
	ID       string  `json:"id"`
	Title    *string `json:"title"`
	StartAt  *string `json:"startAt"`
	EndAt    *string `json:"endAt"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

// NewAppointmentService initializes a new appointment service.
func NewAppointmentService(stores *store.Stores, engine *authz.Engine, ids id.Generator, hub *events.Hub, log *logger.Logger) *AppointmentService {
	return &AppointmentService{
		projects:     stores.Projects,
		appointments: stores.Appointments,
		authz:        engine,
		ids:          ids,
		hub:          hub,
		Log:          log,
	}
}

// ListAppointments handles GET /projects/{projectId}/appointment.
func (as *AppointmentService) ListAppointments(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := as.guardProject(w, r)
	if !ok {
		return
	}

	list := as.appointments.ListByProject(projectID)
	if list == nil {
		list = []models.Appointment{}
	}
	respondWithJSON(w, http.StatusOK, list)
}

// Overview handles GET /projects/{projectId}/appointment/overview:
// total count plus the next five upcoming appointments by start time.
func (as *AppointmentService) Overview(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := as.guardProject(w, r)
	if !ok {
		return
	}

	list := as.appointments.ListByProject(projectID)
	now := time.Now()

	upcoming := []models.Appointment{}
	for _, a := range list {
		if !a.StartAt.Before(now) {
			upcoming = append(upcoming, a)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].StartAt.Before(upcoming[j].StartAt)
	})
	if len(upcoming) > 5 {
		upcoming = upcoming[:5]
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"projectId":     projectID,
		"total":         len(list),
		"upcomingCount": len(upcoming),
		"upcoming":      upcoming,
	})
}

// CreateAppointment handles POST /projects/{projectId}/appointment/create.
func (as *AppointmentService) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	projectID, identity, ok := as.guardProject(w, r)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondWithError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.StartAt == "" || req.EndAt == "" {
		respondWithError(w, http.StatusBadRequest, "startAt and endAt are required")
		return
	}
	startAt, err1 := time.Parse(time.RFC3339, req.StartAt)
	endAt, err2 := time.Parse(time.RFC3339, req.EndAt)
	if err1 != nil || err2 != nil {
		respondWithError(w, http.StatusBadRequest, "startAt/endAt must be valid ISO date strings")
		return
	}
	if !endAt.After(startAt) {
		respondWithError(w, http.StatusBadRequest, "endAt must be after startAt")
		return
	}

	now := time.Now().UTC()
	appt := models.Appointment{
		ID:        as.ids.NewID(),
		ProjectID: projectID,
		Title:     strings.TrimSpace(req.Title),
		StartAt:   startAt,
		EndAt:     endAt,
		Location:  req.Location,
		Notes:     req.Notes,
		CreatedBy: identity.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	as.appointments.Insert(appt)

	as.Log.Info("Appointment created", "appointment_id", appt.ID, "project_id", projectID, "user_id", identity.UserID)
	as.publish("appointment.created", projectID, identity.UserID, appt)
	respondWithJSON(w, http.StatusCreated, appt)
}

// UpdateAppointment handles POST /projects/{projectId}/appointment/update.
func (as *AppointmentService) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	projectID, identity, ok := as.guardProject(w, r)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == "" {
		respondWithError(w, http.StatusBadRequest, "id is required")
		return
	}

	appt, ok := as.appointments.Find(projectID, req.ID)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Appointment not found")
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			respondWithError(w, http.StatusBadRequest, "title must be a non-empty string")
			return
		}
		appt.Title = strings.TrimSpace(*req.Title)
	}
	if req.StartAt != nil {
		startAt, err := time.Parse(time.RFC3339, *req.StartAt)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "startAt must be a valid ISO date string")
			return
		}
		appt.StartAt = startAt
	}
	if req.EndAt != nil {
		endAt, err := time.Parse(time.RFC3339, *req.EndAt)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "endAt must be a valid ISO date string")
			return
		}
		appt.EndAt = endAt
	}
	// Re-check the time order if either end moved.
	if !appt.EndAt.After(appt.StartAt) {
		respondWithError(w, http.StatusBadRequest, "endAt must be after startAt")
		return
	}
	if req.Location != nil {
		appt.Location = *req.Location
	}
	if req.Notes != nil {
		appt.Notes = *req.Notes
	}
	appt.UpdatedAt = time.Now().UTC()

	if err := as.appointments.Update(appt); err != nil {
		respondWithError(w, http.StatusNotFound, "Appointment not found")
		return
	}

	as.publish("appointment.updated", projectID, identity.UserID, appt)
	respondWithJSON(w, http.StatusOK, appt)
}

// DeleteAppointment handles POST /projects/{projectId}/appointment/delete.
func (as *AppointmentService) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	projectID, identity, ok := as.guardProject(w, r)
	if !ok {
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == "" {
		respondWithError(w, http.StatusBadRequest, "id is required")
		return
	}

	if !as.appointments.Delete(projectID, req.ID) {
		respondWithError(w, http.StatusNotFound, "Appointment not found")
		return
	}

	as.publish("appointment.deleted", projectID, identity.UserID, map[string]string{"id": req.ID})
	w.WriteHeader(http.StatusNoContent)
}

// SearchAppointments handles GET /projects/{projectId}/appointment/search?query=
// matching against title, location and notes.
func (as *AppointmentService) SearchAppointments(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := as.guardProject(w, r)
	if !ok {
		return
	}

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query is required")
		return
	}

	results := []models.Appointment{}
	for _, a := range as.appointments.ListByProject(projectID) {
		haystack := strings.ToLower(a.Title + " " + a.Location + " " + a.Notes)
		if strings.Contains(haystack, query) {
			results = append(results, a)
		}
	}
	respondWithJSON(w, http.StatusOK, results)
}

// guardProject resolves the project from the URL and verifies the
// caller may access it. It writes the error response itself when the
// request should not proceed.
func (as *AppointmentService) guardProject(w http.ResponseWriter, r *http.Request) (string, auth.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return "", auth.Identity{}, false
	}

	projectID := mux.Vars(r)["projectId"]
	if !as.projects.Exists(projectID) {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return "", auth.Identity{}, false
	}
	if !as.authz.CanAccessProject(identity, projectID) {
		as.Log.Warn("Unauthorized appointment access attempt", "project_id", projectID, "user_id", identity.UserID)
		respondWithError(w, http.StatusForbidden, "Forbidden")
		return "", auth.Identity{}, false
	}
	return projectID, identity, true
}

func (as *AppointmentService) publish(eventType, projectID, actorID string, payload interface{}) {
	as.hub.Publish(events.Event{
		Type:      eventType,
		ProjectID: projectID,
		ActorID:   actorID,
		Payload:   payload,
		At:        time.Now().UTC(),
	})
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
