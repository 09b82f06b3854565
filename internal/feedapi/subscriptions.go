package feedapi

import (
	"context"
	"fmt"
	"time"
)

// Subscription is one channel feed known to the backend.
type Subscription struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Stats mirrors /api/recommendation_stats.
type Stats struct {
	TotalWatched    int                `json:"total_watched"`
	TotalStarred    int                `json:"total_starred"`
	TotalDisliked   int                `json:"total_disliked"`
	ClickedToWatch  int                `json:"clicked_to_watch"`
	MarkedAsWatched int                `json:"marked_as_watched"`
	TopChannels     map[string]float64 `json:"top_channels"`
	TopKeywords     map[string]float64 `json:"top_keywords"`
	ActiveHours     map[string]int     `json:"active_hours"`
	LastUpdated     float64            `json:"last_updated"`
}

// UpdatedAt converts the epoch-seconds LastUpdated field.
func (s Stats) UpdatedAt() time.Time {
	if s.LastUpdated <= 0 {
		return time.Time{}
	}
	sec := int64(s.LastUpdated)
	nsec := int64((s.LastUpdated - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}

func (c *Client) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	if err := c.getJSON(ctx, "/api/subscriptions", "list subscriptions", &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// SaveSubscriptions replaces the full subscription list on the backend.
func (c *Client) SaveSubscriptions(ctx context.Context, subs []Subscription) error {
	if subs == nil {
		subs = []Subscription{}
	}
	body := map[string][]Subscription{"subscriptions": subs}
	if err := c.postAction(ctx, "/api/subscriptions", "save subscriptions", body); err != nil {
		return fmt.Errorf("replace %d subscriptions: %w", len(subs), err)
	}
	return nil
}

func (c *Client) RecommendationStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := c.getJSON(ctx, "/api/recommendation_stats", "recommendation stats", &stats); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
