package events

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lverma/planora/internal/authz"
	"github.com/lverma/planora/internal/logger"
	"github.com/lverma/planora/internal/middleware"
	"github.com/lverma/planora/internal/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, replace with proper origin checking
	},
}

// Handler upgrades authenticated project members to a websocket event
// stream.
type Handler struct {
	hub      *Hub
	projects store.ProjectStore
	authz    *authz.Engine
	log      *logger.Logger
}

// NewHandler creates a websocket handler backed by the hub.
func NewHandler(hub *Hub, projects store.ProjectStore, engine *authz.Engine, log *logger.Logger) *Handler {
	return &Handler{hub: hub, projects: projects, authz: engine, log: log}
}

// ServeWS handles GET /ws?project_id=. The caller must be authenticated
// (middleware) and able to access the project.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		writeMessage(w, http.StatusBadRequest, "project_id is required")
		return
	}
	if !h.projects.Exists(projectID) {
		writeMessage(w, http.StatusNotFound, "Project not found")
		return
	}
	if !h.authz.CanAccessProject(identity, projectID) {
		writeMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		UserID:    identity.UserID,
		ProjectID: projectID,
	}
	h.hub.register(client)

	go client.WritePump()
	go client.ReadPump()
}

func writeMessage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
