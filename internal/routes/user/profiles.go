package userRoutes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lverma/planora/internal/handlers"
	"github.com/lverma/planora/internal/middleware"
	"github.com/lverma/planora/internal/models"
	userService "github.com/lverma/planora/internal/service/users"
)

func RegisterUserRoutes(router *mux.Router, users *userService.UserService, authHandler *handlers.AuthHandler, invitationHandler *handlers.InvitationHandler, authMW mux.MiddlewareFunc) {
	// Protected routes requiring authentication. /users/me must be
	// registered before the admin /users/{user_id} routes below.
	protectedRouter := router.PathPrefix("/").Subrouter()
	protectedRouter.Use(authMW, middleware.ResponseWrapperMiddleware)
	protectedRouter.HandleFunc("/profile", users.Profile).Methods(http.MethodGet, http.MethodOptions)
	protectedRouter.HandleFunc("/profile/change-password", authHandler.ChangePassword).Methods(http.MethodPost, http.MethodOptions)
	protectedRouter.HandleFunc("/update-profile", users.UpdateProfile).Methods(http.MethodPatch, http.MethodOptions)
	protectedRouter.HandleFunc("/users/me", users.Profile).Methods(http.MethodGet, http.MethodOptions)

	// Admin-only account management.
	adminRouter := router.PathPrefix("/users").Subrouter()
	adminRouter.Use(authMW, middleware.RequireRole(models.RoleAdmin), middleware.ResponseWrapperMiddleware)
	adminRouter.HandleFunc("", users.ListUsers).Methods(http.MethodGet, http.MethodOptions)
	adminRouter.HandleFunc("/invite", invitationHandler.Invite).Methods(http.MethodPost, http.MethodOptions)
	adminRouter.HandleFunc("/{user_id}", users.GetUser).Methods(http.MethodGet, http.MethodOptions)
	adminRouter.HandleFunc("/{user_id}", users.UpdateUser).Methods(http.MethodPatch, http.MethodOptions)
	adminRouter.HandleFunc("/{user_id}", users.DeleteUser).Methods(http.MethodDelete, http.MethodOptions)
	adminRouter.HandleFunc("/{user_id}/anonymize", users.AnonymizeUser).Methods(http.MethodPost, http.MethodOptions)
}
