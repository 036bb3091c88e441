package routes

import (
	"spookin_server/controllers"
	"spookin_server/services"

	"github.com/gorilla/mux"
)

// RegisterLeaderboardRoutes sets up the leaderboard route under /api/leaderboard
func RegisterLeaderboardRoutes(r *mux.Router, leaderboardService *services.LeaderboardService) {
	controller := controllers.NewLeaderboardController(leaderboardService)

	leaderboardRouter := r.PathPrefix("/api/leaderboard").Subrouter()

	// readable without a session
	leaderboardRouter.HandleFunc("", controller.Get).Methods("GET")
}
