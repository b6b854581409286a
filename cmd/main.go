package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/lverma/planora/internal/auth"
	"github.com/lverma/planora/internal/authz"
	"github.com/lverma/planora/internal/config"
	"github.com/lverma/planora/internal/events"
	"github.com/lverma/planora/internal/handlers"
	"github.com/lverma/planora/internal/id"
	"github.com/lverma/planora/internal/logger"
	"github.com/lverma/planora/internal/middleware"
	"github.com/lverma/planora/internal/routes"
	appointmentService "github.com/lverma/planora/internal/service/appointments"
	authService "github.com/lverma/planora/internal/service/auth"
	commentService "github.com/lverma/planora/internal/service/comments"
	"github.com/lverma/planora/internal/service/invitations"
	projectService "github.com/lverma/planora/internal/service/projects"
	settingsService "github.com/lverma/planora/internal/service/settings"
	userService "github.com/lverma/planora/internal/service/users"
	"github.com/lverma/planora/internal/store/memory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	appLog := logger.NewLogger("planora")
	defer appLog.Sync()

	stores := memory.NewStores()
	if err := memory.Seed(stores); err != nil {
		log.Fatal(err)
	}

	tokens := auth.NewTokenService(cfg.JWTSecret)
	engine := authz.NewEngine(stores.Memberships)
	ids := id.NewGenerator()

	hub := events.NewHub(logger.NewLogger("events"))
	eventsHandler := events.NewHandler(hub, stores.Projects, engine, logger.NewLogger("events"))

	auths := authService.NewAuthService(stores.Users, tokens, logger.NewLogger("auth-service"))
	invites := invitations.NewService(stores, ids, logger.NewLogger("invitation-service"))

	router := routes.RegisterAllRoutes(routes.Dependencies{
		Auth:         handlers.NewAuthHandler(auths),
		Invitations:  handlers.NewInvitationHandler(invites),
		Users:        userService.NewUserService(stores, logger.NewLogger("user-service")),
		Projects:     projectService.NewProjectService(stores, engine, ids, logger.NewLogger("project-service")),
		Appointments: appointmentService.NewAppointmentService(stores, engine, ids, hub, logger.NewLogger("appointment-service")),
		Comments:     commentService.NewCommentService(stores, engine, ids, hub, logger.NewLogger("comment-service")),
		Settings:     settingsService.NewSettingsService(stores, logger.NewLogger("settings-service")),
		Events:       eventsHandler,
		AuthMW:       middleware.Auth(tokens),
	})

	appLog.Info("Server starting", "port", cfg.Port, "env", cfg.AppEnv)
	fmt.Printf("Server is running on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
