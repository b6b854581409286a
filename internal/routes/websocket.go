package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lverma/planora/internal/events"
)

// RegisterWebSocketRoutes registers all WebSocket related routes
func RegisterWebSocketRoutes(router *mux.Router, handler *events.Handler, authMW mux.MiddlewareFunc) {
	router.Handle("/ws", authMW(http.HandlerFunc(handler.ServeWS))).Methods("GET", "OPTIONS")
}
