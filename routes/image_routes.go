package routes

import (
	"spookin_server/controllers"
	"spookin_server/middleware"
	"spookin_server/services"

	"github.com/gorilla/mux"
)

// RegisterImageRoutes sets up routes for image records under /api/images
func RegisterImageRoutes(r *mux.Router, imageService *services.ImageService, authService *services.AuthService) {
	controller := controllers.NewImageController(imageService)

	imageRouter := r.PathPrefix("/api/images").Subrouter()
	imageRouter.Use(middleware.Auth(authService))

	imageRouter.HandleFunc("", controller.Create).Methods("POST")
	imageRouter.HandleFunc("/user/{userId}", controller.ListByUser).Methods("GET")
	imageRouter.HandleFunc("/{imageId}", controller.Get).Methods("GET")
}
