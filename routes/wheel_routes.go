package routes

import (
	"spookin_server/controllers"
	"spookin_server/middleware"
	"spookin_server/services"

	"github.com/gorilla/mux"
)

// RegisterWheelRoutes sets up the trick-or-treat routes under /api/wheel
func RegisterWheelRoutes(r *mux.Router, wheelService *services.WheelService, authService *services.AuthService) {
	controller := controllers.NewWheelController(wheelService)

	wheelRouter := r.PathPrefix("/api/wheel").Subrouter()
	wheelRouter.Use(middleware.Auth(authService))

	wheelRouter.HandleFunc("/spin", controller.Spin).Methods("POST")
	wheelRouter.HandleFunc("/status", controller.Status).Methods("GET")
	wheelRouter.HandleFunc("/spins/{spinId}/claim", controller.Claim).Methods("POST")
	wheelRouter.HandleFunc("/spins/{spinId}/dismiss", controller.Dismiss).Methods("POST")
}
