package routes

import (
	"spookin_server/controllers"
	"spookin_server/middleware"
	"spookin_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up presigned-URL routes under /api/s3
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service, authService *services.AuthService) {
	controller := controllers.NewS3Controller(s3Service)

	s3Router := r.PathPrefix("/api/s3").Subrouter()
	s3Router.Use(middleware.Auth(authService))

	s3Router.HandleFunc("/presign-upload", controller.PresignUpload).Methods("GET")
	s3Router.HandleFunc("/presign-read", controller.PresignRead).Methods("GET")
}
