package settingsRoutes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lverma/planora/internal/middleware"
	"github.com/lverma/planora/internal/models"
	settingsService "github.com/lverma/planora/internal/service/settings"
)

func RegisterSettingsRoutes(router *mux.Router, settings *settingsService.SettingsService, authMW mux.MiddlewareFunc) {
	adminRouter := router.PathPrefix("/settings").Subrouter()
	adminRouter.Use(authMW, middleware.RequireRole(models.RoleAdmin), middleware.ResponseWrapperMiddleware)
	adminRouter.HandleFunc("/connection-monitor", settings.GetSettings).Methods(http.MethodGet, http.MethodOptions)
	adminRouter.HandleFunc("/connection-monitor", settings.PatchSettings).Methods(http.MethodPatch, http.MethodOptions)
	adminRouter.HandleFunc("/connection-monitor", settings.PutSettings).Methods(http.MethodPut, http.MethodOptions)
}
