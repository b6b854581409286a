package commentService

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

// CommentService handles project comment operations.
type CommentService struct {
	projects store.ProjectStore
	comments store.CommentStore
	authz    *authz.Engine
	ids      id.Generator
	hub      *events.Hub
	Log      *logger.Logger
}

// CreateCommentRequest represents the request body for comment creation.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// UpdateCommentRequest represents the request body for a comment patch.
type UpdateCommentRequest struct {
	Text *string `json:"text"`
}

// NewCommentService initializes a new comment service.
func NewCommentService(stores *store.Stores, engine *authz.Engine, ids id.Generator, hub *events.Hub, log *logger.Logger) *CommentService {
	return &CommentService{
		projects: stores.Projects,
		comments: stores.Comments,
		authz:    engine,
		ids:      ids,
		hub:      hub,
		Log:      log,
	}
}

// ListComments handles GET /projects/{projectId}/comments, ordered by
// creation time.
func (cs *CommentService) ListComments(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := cs.guardProject(w, r)
	if !ok {
		return
	}

	list := cs.comments.ListByProject(projectID)
	if list == nil {
		list = []models.Comment{}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	respondWithJSON(w, http.StatusOK, list)
}

// SearchComments handles GET /projects/{projectId}/comments/search?query=
// matching against the comment text.
func (cs *CommentService) SearchComments(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := cs.guardProject(w, r)
	if !ok {
		return
	}

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query is required")
		return
	}

	results := []models.Comment{}
	for _, c := range cs.comments.ListByProject(projectID) {
		if strings.Contains(strings.ToLower(c.Text), query) {
			results = append(results, c)
		}
	}
	respondWithJSON(w, http.StatusOK, results)
}

// GetComment handles GET /projects/{projectId}/comments/{commentId}.
func (cs *CommentService) GetComment(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := cs.guardProject(w, r)
	if !ok {
		return
	}

	comment, ok := cs.comments.Find(projectID, mux.Vars(r)["commentId"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "Comment not found")
		return
	}
	respondWithJSON(w, http.StatusOK, comment)
}

// CreateComment handles POST /projects/{projectId}/comments.
func (cs *CommentService) CreateComment(w http.ResponseWriter, r *http.Request) {
	projectID, identity, ok := cs.guardProject(w, r)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondWithError(w, http.StatusBadRequest, "text is required")
		return
	}

	now := time.Now().UTC()
	comment := models.Comment{
		ID:        cs.ids.NewID(),
		ProjectID: projectID,
		Text:      strings.TrimSpace(req.Text),
		CreatedBy: identity.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	cs.comments.Insert(comment)

	cs.Log.Info("Comment created", "comment_id", comment.ID, "project_id", projectID, "user_id", identity.UserID)
	cs.publish("comment.created", projectID, identity.UserID, comment)
	respondWithJSON(w, http.StatusCreated, comment)
}

// UpdateComment handles PATCH /projects/{projectId}/comments/{commentId}.
// Only the author or an admin may edit a comment.
func (cs *CommentService) UpdateComment(w http.ResponseWriter, r *http.Request) {
	projectID, identity, ok := cs.guardProject(w, r)
	if !ok {
		return
	}

	comment, ok := cs.comments.Find(projectID, mux.Vars(r)["commentId"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if !cs.canModify(identity, comment) {
		respondWithError(w, http.StatusForbidden, "Only the author or an admin may modify this comment")
		return
	}

	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		respondWithError(w, http.StatusBadRequest, "text is required")
		return
	}

	comment.Text = strings.TrimSpace(*req.Text)
	comment.UpdatedAt = time.Now().UTC()
	if err := cs.comments.Update(comment); err != nil {
		respondWithError(w, http.StatusNotFound, "Comment not found")
		return
	}

	cs.publish("comment.updated", projectID, identity.UserID, comment)
	respondWithJSON(w, http.StatusOK, comment)
}

// DeleteComment handles DELETE /projects/{projectId}/comments/{commentId}.
// Only the author or an admin may delete a comment.
func (cs *CommentService) DeleteComment(w http.ResponseWriter, r *http.Request) {
	projectID, identity, ok := cs.guardProject(w, r)
	if !ok {
		return
	}

	commentID := mux.Vars(r)["commentId"]
	comment, ok := cs.comments.Find(projectID, commentID)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if !cs.canModify(identity, comment) {
		respondWithError(w, http.StatusForbidden, "Only the author or an admin may modify this comment")
		return
	}

	cs.comments.Delete(projectID, commentID)
	cs.publish("comment.deleted", projectID, identity.UserID, map[string]string{"id": commentID})
	w.WriteHeader(http.StatusNoContent)
}

func (cs *CommentService) canModify(identity auth.Identity, comment models.Comment) bool {
	return identity.Role == models.RoleAdmin || comment.CreatedBy == identity.UserID
}

// guardProject resolves the project from the URL and verifies the
// caller may access it. It writes the error response itself when the
// request should not proceed.
func (cs *CommentService) guardProject(w http.ResponseWriter, r *http.Request) (string, auth.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return "", auth.Identity{}, false
	}

	projectID := mux.Vars(r)["projectId"]
	if !cs.projects.Exists(projectID) {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return "", auth.Identity{}, false
	}
	if !cs.authz.CanAccessProject(identity, projectID) {
		cs.Log.Warn("Unauthorized comment access attempt", "project_id", projectID, "user_id", identity.UserID)
		respondWithError(w, http.StatusForbidden, "Forbidden")
		return "", auth.Identity{}, false
	}
	return projectID, identity, true
}

func (cs *CommentService) publish(eventType, projectID, actorID string, payload interface{}) {
	cs.hub.Publish(events.Event{
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
