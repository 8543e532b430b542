package usecase

import (
	"context"
	"time"

	"hub/internal/domain/entity"
)

// StatsStore caches franchise counts and derives feed activity figures.
type StatsStore interface {
	// Refresh recomputes the franchise counts from the remote users collection.
	// On failure the previous snapshot is kept.
	Refresh(ctx context.Context) (entity.FranchiseStats, error)
	// Snapshot returns the cached counts and whether a refresh ever succeeded.
	Snapshot() (entity.FranchiseStats, bool)
	Status() Status
	// Engagement summarizes feed activity from the local users and posts.
	Engagement(now time.Time) entity.EngagementSummary
}
