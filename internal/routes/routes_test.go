package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lverma/planora/internal/auth"
	"github.com/lverma/planora/internal/authz"
	"github.com/lverma/planora/internal/events"
	"github.com/lverma/planora/internal/handlers"
	"github.com/lverma/planora/internal/id"
	"github.com/lverma/planora/internal/logger"
	"github.com/lverma/planora/internal/middleware"
	appointmentService "github.com/lverma/planora/internal/service/appointments"
	authService "github.com/lverma/planora/internal/service/auth"
	commentService "github.com/lverma/planora/internal/service/comments"
	"github.com/lverma/planora/internal/service/invitations"
	projectService "github.com/lverma/planora/internal/service/projects"
	settingsService "github.com/lverma/planora/internal/service/settings"
	userService "github.com/lverma/planora/internal/service/users"
	"github.com/lverma/planora/internal/store/memory"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	stores := memory.NewStores()
	require.NoError(t, memory.Seed(stores))

	log := logger.NewLogger("test")
	tokens := auth.NewTokenService("test-secret")
	engine := authz.NewEngine(stores.Memberships)
	ids := id.NewGenerator()
	hub := events.NewHub(log)

	auths := authService.NewAuthService(stores.Users, tokens, log)
	invites := invitations.NewService(stores, ids, log)

	return RegisterAllRoutes(Dependencies{
		Auth:         handlers.NewAuthHandler(auths),
		Invitations:  handlers.NewInvitationHandler(invites),
		Users:        userService.NewUserService(stores, log),
		Projects:     projectService.NewProjectService(stores, engine, ids, log),
		Appointments: appointmentService.NewAppointmentService(stores, engine, ids, hub, log),
		Comments:     commentService.NewCommentService(stores, engine, ids, hub, log),
		Settings:     settingsService.NewSettingsService(stores, log),
		Events:       events.NewHandler(hub, stores.Projects, engine, log),
		AuthMW:       middleware.Auth(tokens),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T, router http.Handler, identifier string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"identifier": identifier,
		"password":   "Test1234!",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"identifier": "admin",
		"password":   "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"identifier": "nobody",
		"password":   "Test1234!",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["message"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/projects/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/projects/mine", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProjectListingIsAdminOnly(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginToken(t, router, "admin")
	devToken := loginToken(t, router, "dev")

	rec := doJSON(t, router, http.MethodGet, "/projects", devToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/projects", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var projects []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	assert.Len(t, projects, 2)
}

func TestProjectAccessControl(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginToken(t, router, "admin")
	devToken := loginToken(t, router, "dev")

	// Member can read the project.
	rec := doJSON(t, router, http.MethodGet, "/projects/p1", devToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A project the dev is not a member of is forbidden.
	rec = doJSON(t, router, http.MethodPost, "/projects", adminToken, map[string]string{"name": "Skunkworks"})
	require.Equal(t, http.StatusCreated, rec.Code)
	newID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, router, http.MethodGet, "/projects/"+newID, devToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin reads it without a membership.
	rec = doJSON(t, router, http.MethodGet, "/projects/"+newID, adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/projects/does-not-exist", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMyProjectsAndSearch(t *testing.T) {
	router := newTestRouter(t)
	devToken := loginToken(t, router, "dev")

	rec := doJSON(t, router, http.MethodGet, "/projects/mine", devToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 2)

	rec = doJSON(t, router, http.MethodGet, "/projects/search?query=smart", devToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Smart-Rent", found[0]["name"])

	rec = doJSON(t, router, http.MethodGet, "/projects/search", devToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvitationFlow(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginToken(t, router, "admin")
	devToken := loginToken(t, router, "dev")

	// Only admins invite.
	rec := doJSON(t, router, http.MethodPost, "/users/invite", devToken, map[string]string{
		"email": "new@example.com", "role": "end_user", "projectId": "p1",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/users/invite", adminToken, map[string]string{
		"email": "new@example.com", "role": "end_user", "projectId": "p1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	invitationID := decodeBody(t, rec)["invitationId"].(string)
	require.NotEmpty(t, invitationID)

	// Accepting is public.
	acceptBody := map[string]string{
		"invitationId": invitationID,
		"username":     "newbie",
		"password":     "Test1234!",
		"firstName":    "New",
		"lastName":     "Person",
	}
	rec = doJSON(t, router, http.MethodPost, "/auth/accept-invitation", "", acceptBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// The new account can log in and sees the project.
	newToken := loginToken(t, router, "newbie")
	rec = doJSON(t, router, http.MethodGet, "/projects/p1", newToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Second accept of the same invitation fails.
	acceptBody["username"] = "newbie2"
	rec = doJSON(t, router, http.MethodPost, "/auth/accept-invitation", "", acceptBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/accept-invitation", "", map[string]string{
		"invitationId": "no-such-id",
		"username":     "ghost",
		"password":     "Test1234!",
		"firstName":    "Gh",
		"lastName":     "Ost",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAppointmentLifecycle(t *testing.T) {
	router := newTestRouter(t)
	devToken := loginToken(t, router, "dev")

	start := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	end := time.Now().Add(25 * time.Hour).UTC().Format(time.RFC3339)

	rec := doJSON(t, router, http.MethodPost, "/projects/p1/appointment/create", devToken, map[string]string{
		"title": "Sprint planning", "startAt": start, "endAt": end, "location": "Room 4",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	apptID := decodeBody(t, rec)["id"].(string)

	// endAt before startAt is rejected.
	rec = doJSON(t, router, http.MethodPost, "/projects/p1/appointment/create", devToken, map[string]string{
		"title": "Backwards", "startAt": end, "endAt": start,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/projects/p1/appointment", devToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = doJSON(t, router, http.MethodGet, "/projects/p1/appointment/overview", devToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decodeBody(t, rec)
	assert.Equal(t, float64(1), overview["total"])

	rec = doJSON(t, router, http.MethodPost, "/projects/p1/appointment/update", devToken, map[string]string{
		"id": apptID, "title": "Sprint planning (moved)",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Sprint planning (moved)", decodeBody(t, rec)["title"])

	rec = doJSON(t, router, http.MethodGet, "/projects/p1/appointment/search?query=moved", devToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Len(t, found, 1)

	rec = doJSON(t, router, http.MethodPost, "/projects/p1/appointment/delete", devToken, map[string]string{"id": apptID})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/projects/p1/appointment/delete", devToken, map[string]string{"id": apptID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAppointmentsScopedToMembers(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginToken(t, router, "admin")
	devToken := loginToken(t, router, "dev")

	rec := doJSON(t, router, http.MethodPost, "/projects", adminToken, map[string]string{"name": "Private"})
	require.Equal(t, http.StatusCreated, rec.Code)
	newID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, router, http.MethodGet, "/projects/"+newID+"/appointment", devToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/projects/does-not-exist/appointment", devToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentAuthorRule(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginToken(t, router, "admin")
	devToken := loginToken(t, router, "dev")

	rec := doJSON(t, router, http.MethodPost, "/projects/p1/comments", adminToken, map[string]string{"text": "Looks good"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	commentID := decodeBody(t, rec)["id"].(string)

	// The dev is not the author and not an admin.
	rec = doJSON(t, router, http.MethodPatch, "/projects/p1/comments/"+commentID, devToken, map[string]string{"text": "edited"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, "/projects/p1/comments/"+commentID, devToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The author edits and deletes freely.
	rec = doJSON(t, router, http.MethodPatch, "/projects/p1/comments/"+commentID, adminToken, map[string]string{"text": "edited"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "edited", decodeBody(t, rec)["text"])

	rec = doJSON(t, router, http.MethodDelete, "/projects/p1/comments/"+commentID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCommentListAndSearch(t *testing.T) {
	router := newTestRouter(t)
	devToken := loginToken(t, router, "dev")

	for _, text := range []string{"first note", "second note", "unrelated"} {
		rec := doJSON(t, router, http.MethodPost, "/projects/p1/comments", devToken, map[string]string{"text": text})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/projects/p1/comments", devToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 3)

	rec = doJSON(t, router, http.MethodGet, "/projects/p1/comments/search?query=note", devToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Len(t, found, 2)
}

func TestSettingsAdminOnly(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginToken(t, router, "admin")
	devToken := loginToken(t, router, "dev")

	rec := doJSON(t, router, http.MethodGet, "/settings/connection-monitor", devToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/settings/connection-monitor", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(60), decodeBody(t, rec)["intervalSeconds"])

	rec = doJSON(t, router, http.MethodPatch, "/settings/connection-monitor", adminToken, map[string]int{"intervalSeconds": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/settings/connection-monitor", adminToken, map[string]int{"intervalSeconds": 30})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(30), decodeBody(t, rec)["intervalSeconds"])

	rec = doJSON(t, router, http.MethodPut, "/settings/connection-monitor", adminToken, map[string]interface{}{
		"enabled": false, "intervalSeconds": 120, "notifyOnDisconnect": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["enabled"])
	assert.Equal(t, float64(120), body["intervalSeconds"])
}

func TestUserManagement(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginToken(t, router, "admin")
	devToken := loginToken(t, router, "dev")

	// Everyone sees their own record; the password hash never leaks.
	rec := doJSON(t, router, http.MethodGet, "/users/me", devToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody(t, rec)
	assert.Equal(t, "dev", me["username"])
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	// Listing is admin only.
	rec = doJSON(t, router, http.MethodGet, "/users", devToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/users?search=dev", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "u2", found[0]["id"])

	// Admins cannot delete themselves.
	rec = doJSON(t, router, http.MethodDelete, "/users/u1", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot delete yourself", decodeBody(t, rec)["message"])

	// Role changes validate the vocabulary.
	rec = doJSON(t, router, http.MethodPatch, "/users/u2", adminToken, map[string]string{"role": "SUPERUSER"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, router, http.MethodPatch, "/users/u2", adminToken, map[string]string{"role": "ADMIN"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ADMIN", decodeBody(t, rec)["role"])

	// Anonymize keeps the record but scrubs personal fields.
	rec = doJSON(t, router, http.MethodPost, "/users/u2/anonymize", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	anon := decodeBody(t, rec)
	assert.Equal(t, "anonymized_u2", anon["username"])
	assert.Equal(t, "anonymized_u2@example.com", anon["email"])

	// Deleting cascades memberships.
	rec = doJSON(t, router, http.MethodDelete, "/users/u2", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeBody(t, rec)["membershipsRemoved"])
}

func TestProfileUpdateAndConflicts(t *testing.T) {
	router := newTestRouter(t)
	devToken := loginToken(t, router, "dev")

	rec := doJSON(t, router, http.MethodGet, "/profile", devToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/update-profile", devToken, map[string]string{"firstName": "Deborah"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deborah", decodeBody(t, rec)["firstName"])

	// Taking the seeded admin's username conflicts.
	rec = doJSON(t, router, http.MethodPatch, "/update-profile", devToken, map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/update-profile", devToken, map[string]string{"username": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangePasswordEndpoint(t *testing.T) {
	router := newTestRouter(t)
	devToken := loginToken(t, router, "dev")

	rec := doJSON(t, router, http.MethodPost, "/profile/change-password", devToken, map[string]string{
		"currentPassword": "wrong", "newPassword": "NewPass99?",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/profile/change-password", devToken, map[string]string{
		"currentPassword": "Test1234!", "newPassword": "NewPass99?",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"identifier": "dev", "password": "NewPass99?",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProjectAnalysisAndMembers(t *testing.T) {
	router := newTestRouter(t)
	adminToken := loginToken(t, router, "admin")
	devToken := loginToken(t, router, "dev")

	rec := doJSON(t, router, http.MethodGet, "/projects/p1/analysis", devToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	analysis := decodeBody(t, rec)
	assert.Equal(t, "p1", analysis["projectId"])

	// Adding a member is admin only; re-adding updates the role.
	rec = doJSON(t, router, http.MethodPost, "/projects/p1/members", devToken, map[string]string{
		"userId": "u1", "projectRole": "MANAGER",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/projects/p1/members", adminToken, map[string]string{
		"userId": "u1", "projectRole": "MANAGER",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/projects/p1/members", adminToken, map[string]string{
		"userId": "u1", "projectRole": "DEVELOPER",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/projects/p1/members", adminToken, map[string]string{
		"userId": "u1", "projectRole": "OWNER",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
