package client

import "context"

// User history and community feed operations.

type historyRequest struct {
	SessionToken string `json:"sessionToken"`
	UserID       string `json:"userId"`
	Limit        int    `json:"limit,omitempty"`
	Filter       string `json:"filter,omitempty"`
}

// GetUserHistory lists the user's recorded activities, newest first.
func (c *Client) GetUserHistory(ctx context.Context, sessionToken, userID string, limit int) ([]HistoryEntry, error) {
	var out struct {
		History []HistoryEntry `json:"history"`
	}
	req := historyRequest{SessionToken: sessionToken, UserID: userID, Limit: limit}
	if err := c.post(ctx, "get_user_history", "/userHistory/getUserHistory", req, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

// GetUserStats fetches aggregate statistics for one user.
func (c *Client) GetUserStats(ctx context.Context, sessionToken, userID string) (*UserStats, error) {
	var out struct {
		Stats *UserStats `json:"stats"`
	}
	req := historyRequest{SessionToken: sessionToken, UserID: userID}
	if err := c.post(ctx, "get_user_stats", "/userHistory/getUserStats", req, &out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

// GetPublicFeed returns the community activity feed.
func (c *Client) GetPublicFeed(ctx context.Context, sessionToken, userID string, limit int) ([]FeedItem, error) {
	var out struct {
		Feed []FeedItem `json:"feed"`
	}
	req := historyRequest{SessionToken: sessionToken, UserID: userID, Limit: limit}
	if err := c.post(ctx, "get_public_feed", "/userHistory/getPublicFeed", req, &out); err != nil {
		return nil, err
	}
	return out.Feed, nil
}

// GetPopularRoutes returns the most-hiked routes, optionally filtered.
func (c *Client) GetPopularRoutes(ctx context.Context, sessionToken, userID string, limit int, filter string) ([]PopularRoute, error) {
	var out struct {
		Routes []PopularRoute `json:"routes"`
	}
	req := historyRequest{SessionToken: sessionToken, UserID: userID, Limit: limit, Filter: filter}
	if err := c.post(ctx, "get_popular_routes", "/userHistory/getPopularRoutes", req, &out); err != nil {
		return nil, err
	}
	return out.Routes, nil
}

// RecordActivity stores a completed hike on the user's history.
func (c *Client) RecordActivity(ctx context.Context, req RecordActivityRequest) error {
	return c.post(ctx, "record_activity", "/userHistory/recordActivity", req, nil)
}

// GetUserAchievements lists the badges the user has earned.
func (c *Client) GetUserAchievements(ctx context.Context, sessionToken, userID string) ([]Achievement, error) {
	var out struct {
		Achievements []Achievement `json:"achievements"`
	}
	req := historyRequest{SessionToken: sessionToken, UserID: userID}
	if err := c.post(ctx, "get_user_achievements", "/userHistory/getUserAchievements", req, &out); err != nil {
		return nil, err
	}
	return out.Achievements, nil
}
