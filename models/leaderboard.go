package models

// ✅ Leaderboard metrics
const (
	MetricCandy = "candy"
	MetricSpins = "spins"
)

// LeaderboardEntry is a read projection of profile fields, never stored.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    string `json:"userId"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Candy     int    `json:"candy"`
	Spins     int    `json:"spins"`
}
