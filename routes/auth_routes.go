package routes

import (
	"net/http"

	"spookin_server/controllers"
	"spookin_server/middleware"
	"spookin_server/services"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes sets up routes for authentication under /api/auth
func RegisterAuthRoutes(r *mux.Router, authService *services.AuthService) {
	controller := controllers.NewAuthController(authService)
	authMW := middleware.Auth(authService)

	authRouter := r.PathPrefix("/api/auth").Subrouter()

	authRouter.HandleFunc("/register", controller.Register).Methods("POST")
	authRouter.HandleFunc("/login", controller.Login).Methods("POST")
	authRouter.HandleFunc("/guest", controller.Guest).Methods("POST")
	authRouter.HandleFunc("/logout", controller.Logout).Methods("POST")
	authRouter.HandleFunc("/password-reset", controller.SendPasswordReset).Methods("POST")
	authRouter.HandleFunc("/password-reset/confirm", controller.ConfirmPasswordReset).Methods("POST")

	// credential management requires an authenticated session
	authRouter.Handle("/reauthenticate", authMW(http.HandlerFunc(controller.Reauthenticate))).Methods("POST")
	authRouter.Handle("/password", authMW(http.HandlerFunc(controller.UpdatePassword))).Methods("PATCH")
	authRouter.Handle("/account", authMW(http.HandlerFunc(controller.DeleteAccount))).Methods("DELETE")
}
