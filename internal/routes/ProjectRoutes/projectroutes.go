package projectRoutes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lverma/planora/internal/middleware"
	"github.com/lverma/planora/internal/models"
	appointmentService "github.com/lverma/planora/internal/service/appointments"
	commentService "github.com/lverma/planora/internal/service/comments"
	projectService "github.com/lverma/planora/internal/service/projects"
)

func RegisterProjectRoutes(router *mux.Router, projects *projectService.ProjectService, appointments *appointmentService.AppointmentService, comments *commentService.CommentService, authMW mux.MiddlewareFunc) {
	// Member-accessible routes. /mine and /search must be registered
	// before the {id} catch-all.
	protectedRouter := router.PathPrefix("/projects").Subrouter()
	protectedRouter.Use(authMW, middleware.ResponseWrapperMiddleware)
	protectedRouter.HandleFunc("/mine", projects.MyProjects).Methods(http.MethodGet, http.MethodOptions)
	protectedRouter.HandleFunc("/search", projects.SearchProjects).Methods(http.MethodGet, http.MethodOptions)
	protectedRouter.HandleFunc("/{projectId}/analysis", projects.ProjectAnalysis).Methods(http.MethodGet, http.MethodOptions)

	// Appointment routes
	protectedRouter.HandleFunc("/{projectId}/appointment", appointments.ListAppointments).Methods(http.MethodGet, http.MethodOptions)
	protectedRouter.HandleFunc("/{projectId}/appointment/overview", appointments.Overview).Methods(http.MethodGet, http.MethodOptions)
	protectedRouter.HandleFunc("/{projectId}/appointment/search", appointments.SearchAppointments).Methods(http.MethodGet, http.MethodOptions)
	protectedRouter.HandleFunc("/{projectId}/appointment/create", appointments.CreateAppointment).Methods(http.MethodPost, http.MethodOptions)
	protectedRouter.HandleFunc("/{projectId}/appointment/update", appointments.UpdateAppointment).Methods(http.MethodPost, http.MethodOptions)
	protectedRouter.HandleFunc("/{projectId}/appointment/delete", appointments.DeleteAppointment).Methods(http.MethodPost, http.MethodOptions)

	// Comment routes. /search must be registered before {commentId}.
	protectedRouter.HandleFunc("/{projectId}/comments", comments.ListComments).Methods(http.MethodGet, http.MethodOptions)
	protectedRouter.HandleFunc("/{projectId}/comments", comments.CreateComment).Methods(http.MethodPost, http.MethodOptions)
	protectedRouter.HandleFunc("/{projectId}/comments/search", comments.SearchComments).Methods(http.MethodGet, http.MethodOptions)
	protectedRouter.HandleFunc("/{projectId}/comments/{commentId}", comments.GetComment).Methods(http.MethodGet, http.MethodOptions)
	protectedRouter.HandleFunc("/{projectId}/comments/{commentId}", comments.UpdateComment).Methods(http.MethodPatch, http.MethodOptions)
	protectedRouter.HandleFunc("/{projectId}/comments/{commentId}", comments.DeleteComment).Methods(http.MethodDelete, http.MethodOptions)

	protectedRouter.HandleFunc("/{id}", projects.GetProject).Methods(http.MethodGet, http.MethodOptions)

	// Admin-only project management.
	adminRouter := router.PathPrefix("/projects").Subrouter()
	adminRouter.Use(authMW, middleware.RequireRole(models.RoleAdmin), middleware.ResponseWrapperMiddleware)
	adminRouter.HandleFunc("", projects.ListProjects).Methods(http.MethodGet, http.MethodOptions)
	adminRouter.HandleFunc("", projects.CreateProject).Methods(http.MethodPost, http.MethodOptions)
	adminRouter.HandleFunc("/{id}/members", projects.AddMember).Methods(http.MethodPost, http.MethodOptions)
}
