package usecase

import (
	"context"
	"time"

	"hub/internal/domain/entity"
)

// FeedWindow selects the posts considered by the popular feed.
type FeedWindow string

const (
	// WindowNow covers the last three hours.
	WindowNow FeedWindow = "now"
	// WindowToday covers the posts since local midnight.
	WindowToday FeedWindow = "today"
	// WindowAll covers every loaded post.
	WindowAll FeedWindow = "all"
)

// CreatePostInput defines the data required to publish a post.
type CreatePostInput struct {
	Content string   `json:"content" validate:"required"`
	Images  []string `json:"images" validate:"omitempty,dive,url"`
	Link    string   `json:"link" validate:"omitempty,url"`
}

// PostStore is the entity store of the social feed. Comments and replies
// live inside their post.
type PostStore interface {
	Load(ctx context.Context) error
	Subscribe(ctx context.Context) (Subscription, error)
	Status() Status
	Observe(fn func([]entity.Post)) (cancel func())
	SetOffline(offline bool)

	All() []entity.Post
	FindByID(id string) (entity.Post, bool)
	Popular(window FeedWindow, now time.Time) []entity.Post

	Create(ctx context.Context, by entity.Actor, input CreatePostInput) (*entity.Post, error)
	// Remove deletes the post with its comments and replies.
	Remove(ctx context.Context, by entity.Actor, postID string) error

	ToggleLike(ctx context.Context, by entity.Actor, postID string) (liked bool, err error)
	IsLiked(postID, actorID string) bool

	AddComment(ctx context.Context, by entity.Actor, postID, content string) (*entity.Comment, error)
	RemoveComment(ctx context.Context, by entity.Actor, postID, commentID string) error
	ToggleCommentLike(ctx context.Context, by entity.Actor, postID, commentID string) (liked bool, err error)
	IsCommentLiked(postID, commentID, actorID string) bool

	AddReply(ctx context.Context, by entity.Actor, postID, commentID, content string) (*entity.Reply, error)
	RemoveReply(ctx context.Context, by entity.Actor, postID, commentID, replyID string) error
	ToggleReplyLike(ctx context.Context, by entity.Actor, postID, commentID, replyID string) (liked bool, err error)
	IsReplyLiked(postID, commentID, replyID, actorID string) bool

	Close()
}
