package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"spookin_server/models"
	"spookin_server/services"
)

// LeaderboardController serves ranked profile projections.
type LeaderboardController struct {
	LeaderboardService *services.LeaderboardService
}

func NewLeaderboardController(service *services.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: service}
}

// Get returns the top profiles by one metric at a time.
func (c *LeaderboardController) Get(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = models.MetricCandy
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = services.DefaultLeaderboardSize
	}

	entries, err := c.LeaderboardService.TopProfiles(r.Context(), metric, limit)
	if err != nil {
		log.Printf("❌ Leaderboard query failed: %v", err)
		writeError(w, http.StatusBadRequest, "Failed to fetch leaderboard")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"metric":  metric,
		"entries": entries,
	})
}
