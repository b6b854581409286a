package authRoute

import (
	"github.com/gorilla/mux"

	"github.com/lverma/planora/internal/handlers"
	"github.com/lverma/planora/internal/middleware"
)

func RegisterAuthRoutes(router *mux.Router, authHandler *handlers.AuthHandler, invitationHandler *handlers.InvitationHandler) {
	// Public routes without auth middleware
	publicRouter := router.PathPrefix("/auth").Subrouter()
	publicRouter.Use(middleware.ResponseWrapperMiddleware)
	publicRouter.HandleFunc("/login", authHandler.Login).Methods("POST")
	publicRouter.HandleFunc("/accept-invitation", invitationHandler.AcceptInvitation).Methods("POST")
}
