package entity

import "time"

// FranchiseStats is a derived, non-authoritative count of franchise
// operators taken from one snapshot of the users collection.
type FranchiseStats struct {
	Total       int       `json:"total"`
	Active      int       `json:"active"`
	Online      int       `json:"online"`
	Pending     int       `json:"pending"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

// EngagementSummary is the administrator's view of feed activity.
type EngagementSummary struct {
	OnlineActors   int       `json:"onlineActors"`
	PostsToday     int       `json:"postsToday"`
	PostsYesterday int       `json:"postsYesterday"`
	TrendPercent   float64   `json:"trendPercent"`
	ComputedAt     time.Time `json:"computedAt"`
}
