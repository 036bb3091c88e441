package routes

import (
	"spookin_server/controllers"
	"spookin_server/middleware"
	"spookin_server/services"

	"github.com/gorilla/mux"
)

// RegisterMediaRoutes sets up the media proxy routes under /api/media
func RegisterMediaRoutes(r *mux.Router, mediaService *services.MediaService, authService *services.AuthService) {
	controller := controllers.NewMediaController(mediaService)

	mediaRouter := r.PathPrefix("/api/media").Subrouter()
	mediaRouter.Use(middleware.Auth(authService))

	mediaRouter.HandleFunc("/upload", controller.Upload).Methods("POST")
	mediaRouter.HandleFunc("/caption", controller.Caption).Methods("POST")
	mediaRouter.HandleFunc("/background-replace", controller.BackgroundReplace).Methods("POST")
	mediaRouter.HandleFunc("/download", controller.Download).Methods("GET")
}
