package routes

import (
	"spookin_server/controllers"
	"spookin_server/middleware"
	"spookin_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for chat-related operations under /api/chat
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, authService *services.AuthService) {
	controller := controllers.NewChatController(chatService)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.Use(middleware.Auth(authService))

	chatRouter.HandleFunc("/messages", controller.GetMessages).Methods("GET")
	chatRouter.HandleFunc("/message", controller.SendMessage).Methods("POST")
	chatRouter.HandleFunc("/thread", controller.ResolveThread).Methods("GET")
	chatRouter.HandleFunc("/thread/global", controller.GlobalThread).Methods("GET")
}
