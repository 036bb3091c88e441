package routes

import (
	"spookin_server/controllers"
	"spookin_server/middleware"
	"spookin_server/services"

	"github.com/gorilla/mux"
)

// RegisterPreferenceRoutes sets up the settings routes under /api/preferences
func RegisterPreferenceRoutes(r *mux.Router, preferenceService *services.PreferenceService, authService *services.AuthService) {
	controller := controllers.NewPreferenceController(preferenceService)

	prefRouter := r.PathPrefix("/api/preferences").Subrouter()
	prefRouter.Use(middleware.Auth(authService))

	prefRouter.HandleFunc("", controller.Get).Methods("GET")
	prefRouter.HandleFunc("", controller.Save).Methods("PUT")
}
