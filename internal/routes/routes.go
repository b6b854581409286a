package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lverma/planora/internal/events"
	"github.com/lverma/planora/internal/handlers"
	authRoute "github.com/lverma/planora/internal/routes/Auth"
	projectRoutes "github.com/lverma/planora/internal/routes/ProjectRoutes"
	settingsRoutes "github.com/lverma/planora/internal/routes/settings"
	userRoutes "github.com/lverma/planora/internal/routes/user"
	appointmentService "github.com/lverma/planora/internal/service/appointments"
	commentService "github.com/lverma/planora/internal/service/comments"
	projectService "github.com/lverma/planora/internal/service/projects"
	settingsService "github.com/lverma/planora/internal/service/settings"
	userService "github.com/lverma/planora/internal/service/users"
)

// Dependencies carries the constructed handlers and services the route
// modules wire together, plus the auth middleware guarding the
// protected surface.
type Dependencies struct {
	Auth         *handlers.AuthHandler
	Invitations  *handlers.InvitationHandler
	Users        *userService.UserService
	Projects     *projectService.ProjectService
	Appointments *appointmentService.AppointmentService
	Comments     *commentService.CommentService
	Settings     *settingsService.SettingsService
	Events       *events.Handler
	AuthMW       mux.MiddlewareFunc
}

// Register all routes dynamically
func RegisterAllRoutes(deps Dependencies) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}).Methods("GET")

	authRoute.RegisterAuthRoutes(router, deps.Auth, deps.Invitations)
	userRoutes.RegisterUserRoutes(router, deps.Users, deps.Auth, deps.Invitations, deps.AuthMW)
	projectRoutes.RegisterProjectRoutes(router, deps.Projects, deps.Appointments, deps.Comments, deps.AuthMW)
	settingsRoutes.RegisterSettingsRoutes(router, deps.Settings, deps.AuthMW)
	RegisterWebSocketRoutes(router, deps.Events, deps.AuthMW)

	return router
}
