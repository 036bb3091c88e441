package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"spookin_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// LeaderboardService builds read projections of visible profiles ordered
// by one metric at a time. Results are cached briefly in Redis since the
// underlying scan touches every profile.
type LeaderboardService struct {
	Dynamo *DynamoService
	Redis  *RedisService

	CacheTTL time.Duration
}

const DefaultLeaderboardSize = 25

func NewLeaderboardService(dynamo *DynamoService, redis *RedisService) *LeaderboardService {
	return &LeaderboardService{Dynamo: dynamo, Redis: redis, CacheTTL: 30 * time.Second}
}

// TopProfiles returns the top limit visible profiles by the given metric.
func (ls *LeaderboardService) TopProfiles(ctx context.Context, metric string, limit int) ([]models.LeaderboardEntry, error) {
	if metric != models.MetricCandy && metric != models.MetricSpins {
		return nil, fmt.Errorf("unknown leaderboard metric: %s", metric)
	}
	if limit <= 0 || limit > 100 {
		limit = DefaultLeaderboardSize
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%d", metric, limit)
	if ls.Redis != nil {
		if cached, err := ls.Redis.Get(ctx, cacheKey); err == nil && cached != "" {
			var entries []models.LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	var profiles []models.UserProfile
	err := ls.Dynamo.ScanWithFilter(ctx, models.UserProfilesTable, func(item map[string]types.AttributeValue) bool {
		if v, ok := item["visible"].(*types.AttributeValueMemberBOOL); ok {
			return v.Value
		}
		return false
	}, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		if metric == models.MetricSpins {
			return profiles[i].Spins > profiles[j].Spins
		}
		return profiles[i].Candy > profiles[j].Candy
	})

	if len(profiles) > limit {
		profiles = profiles[:limit]
	}

	entries := make([]models.LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, models.LeaderboardEntry{
			Rank:      i + 1,
			UserID:    p.UserID,
			Handle:    p.Handle,
			AvatarURL: p.AvatarURL,
			Candy:     p.Candy,
			Spins:     p.Spins,
		})
	}

	if ls.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := ls.Redis.Set(ctx, cacheKey, string(data), ls.CacheTTL); err != nil {
				log.Printf("⚠️ Failed to cache leaderboard: %v", err)
			}
		}
	}

	return entries, nil
}
