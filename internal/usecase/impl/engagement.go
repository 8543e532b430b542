package impl

import (
	"math"
	"sort"
	"time"

	"hub/internal/domain/entity"
	"hub/internal/usecase"
)

// nowWindow is the span of the "now" feed window.
const nowWindow = 3 * time.Hour

// RankPosts returns the posts ordered by engagement score, highest first.
// Equal scores keep their input order.
func RankPosts(posts []entity.Post) []entity.Post {
	ranked := make([]entity.Post, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EngagementScore() > ranked[j].EngagementScore()
	})

	return ranked
}

// PopularPosts ranks the posts created inside window. Unknown windows
// behave like WindowAll.
func PopularPosts(posts []entity.Post, window usecase.FeedWindow, now time.Time) []entity.Post {
	var since time.Time
	switch window {
	case usecase.WindowNow:
		since = now.Add(-nowWindow)
	case usecase.WindowToday:
		since = startOfDay(now)
	default:
		return RankPosts(posts)
	}

	inWindow := make([]entity.Post, 0, len(posts))
	for _, post := range posts {
		if !post.CreatedAt.Before(since) {
			inWindow = append(inWindow, post)
		}
	}

	return RankPosts(inWindow)
}

// ComputeFranchiseStats counts the franchise operators among actors.
func ComputeFranchiseStats(actors []entity.Actor, now time.Time) entity.FranchiseStats {
	stats := entity.FranchiseStats{RefreshedAt: now}
	for _, a := range actors {
		if a.Role != entity.RoleFranchise {
			continue
		}
		stats.Total++
		if a.IsActive {
			stats.Active++
			if a.IsOnline {
				stats.Online++
			}
		}
		if a.ActivationStatus == entity.ActivationPending {
			stats.Pending++
		}
	}

	return stats
}

// SummarizeEngagement counts online actors and the posts of today and
// yesterday in now's location, with the day-over-day trend in percent.
func SummarizeEngagement(actors []entity.Actor, posts []entity.Post, now time.Time) entity.EngagementSummary {
	summary := entity.EngagementSummary{ComputedAt: now}
	for _, a := range actors {
		if a.IsOnline {
			summary.OnlineActors++
		}
	}

	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	for _, p := range posts {
		created := p.CreatedAt.In(now.Location())
		switch {
		case !created.Before(today):
			summary.PostsToday++
		case !created.Before(yesterday):
			summary.PostsYesterday++
		}
	}

	if summary.PostsYesterday > 0 {
		delta := float64(summary.PostsToday-summary.PostsYesterday) / float64(summary.PostsYesterday)
		summary.TrendPercent = math.Round(delta * 100)
	}

	return summary
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
