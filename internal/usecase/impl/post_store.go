package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"hub/config"
	"hub/internal/domain/entity"
	domainerrors "hub/internal/domain/errors"
	"hub/internal/domain/repository"
	"hub/internal/domain/service"
	"hub/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const postsCollection = "posts"

// postStore implements the PostStore interface. Likes and threads are
// written as whole fields of the post document.
type postStore struct {
	*collection[entity.Post]

	pageSize int
	newID    func() string
}

// PostStoreParams holds dependencies for PostStore, injected by Fx.
type PostStoreParams struct {
	fx.In

	Remote    repository.DocumentStore
	Snapshots repository.SnapshotStore
	Recorder  service.OperationRecorder `optional:"true"`
	Config    *config.Config
	Logger    *slog.Logger
}

// NewPostStore is the constructor for postStore.
func NewPostStore(params PostStoreParams) usecase.PostStore {
	store := &postStore{
		collection: newCollection(postsCollection, decodePost, collectionDeps{
			Remote:    params.Remote,
			Snapshots: params.Snapshots,
			Recorder:  params.Recorder,
			Logger:    params.Logger,
		}),
		pageSize: pageSizeOf(params.Config),
		newID:    uuid.NewString,
	}
	if params.Config != nil && params.Config.Store != nil {
		store.setOffline(params.Config.Store.Offline)
	}

	if err := store.warm(context.Background()); err != nil {
		store.deps.Logger.Warn("Failed to warm posts from snapshot", slog.Any("error", err))
	}

	return store
}

func decodePost(doc repository.Document) (entity.Post, error) {
	var post entity.Post
	if err := doc.DataTo(&post); err != nil {
		return post, err
	}
	post.ID = doc.ID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = doc.CreateTime
	}

	return post, nil
}

func (s *postStore) query() repository.Query {
	return repository.Query{
		Collection: postsCollection,
		OrderBy:    "createdAt",
		Direction:  repository.Desc,
		Limit:      s.pageSize,
	}
}

func (s *postStore) Load(ctx context.Context) error {
	return s.load(ctx, s.query())
}

func (s *postStore) Subscribe(ctx context.Context) (usecase.Subscription, error) {
	return s.subscribe(ctx, s.query())
}

func (s *postStore) Status() usecase.Status {
	return s.currentStatus()
}

func (s *postStore) Observe(fn func([]entity.Post)) func() {
	return s.observe(fn)
}

func (s *postStore) SetOffline(offline bool) {
	s.setOffline(offline)
}

func (s *postStore) All() []entity.Post {
	return s.all()
}

func (s *postStore) FindByID(id string) (entity.Post, bool) {
	return s.find(id)
}

// Popular ranks the posts of the window by engagement.
func (s *postStore) Popular(window usecase.FeedWindow, now time.Time) []entity.Post {
	return PopularPosts(s.all(), window, now)
}

// Create publishes a post by the acting account.
func (s *postStore) Create(ctx context.Context, by entity.Actor, input usecase.CreatePostInput) (*entity.Post, error) {
	if err := requireActor(by); err != nil {
		return nil, err
	}
	input.Content = strings.TrimSpace(input.Content)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	post := entity.Post{
		UserID:   by.ID,
		Content:  input.Content,
		Likes:    entity.LikeSet{},
		Comments: []entity.Comment{},
		Images:   input.Images,
		Link:     input.Link,
	}

	fields := post.Fields()
	fields["createdAt"] = repository.ServerTimestamp

	created, err := s.insert(ctx, fields, func(res *repository.WriteResult) entity.Post {
		p := post.Clone()
		p.ID = res.ID
		p.CreatedAt = res.UpdateTime

		return p
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Remove deletes the post together with its thread.
func (s *postStore) Remove(ctx context.Context, by entity.Actor, postID string) error {
	post, err := s.post(postID)
	if err != nil {
		return err
	}
	if err := requireAuthorOrAdmin(by, post.UserID); err != nil {
		s.log(ctx).Warn("Rejected post removal", slog.String("by", by.ID), slog.String("post", postID))

		return err
	}

	return s.remove(ctx, postID)
}

func (s *postStore) post(postID string) (entity.Post, error) {
	post, ok := s.find(postID)
	if !ok {
		return post, domainerrors.ErrNotFound.WithDetails("post " + postID)
	}

	return post, nil
}

// ToggleLike likes the post for the actor, or withdraws the like.
func (s *postStore) ToggleLike(ctx context.Context, by entity.Actor, postID string) (bool, error) {
	if err := requireActor(by); err != nil {
		return false, err
	}
	post, err := s.post(postID)
	if err != nil {
		return false, err
	}

	likes, liked := post.Likes.Toggle(by.ID)
	err = s.update(ctx, postID, map[string]any{"likes": []string(likes)}, func(p *entity.Post) {
		p.Likes = likes
	})
	if err != nil {
		return false, err
	}

	return liked, nil
}

func (s *postStore) IsLiked(postID, actorID string) bool {
	post, ok := s.find(postID)

	return ok && post.Likes.Contains(actorID)
}

// rewriteThread applies edit to a copy of the post's thread and writes the
// whole thread back.
func (s *postStore) rewriteThread(ctx context.Context, postID string, edit func(*entity.Post) error) error {
	post, err := s.post(postID)
	if err != nil {
		return err
	}
	if err := edit(&post); err != nil {
		return err
	}

	comments := post.Comments

	return s.update(ctx, postID, map[string]any{"comments": entity.CommentFields(comments)}, func(p *entity.Post) {
		p.Comments = entity.Post{Comments: comments}.Clone().Comments
	})
}

func (s *postStore) AddComment(ctx context.Context, by entity.Actor, postID, content string) (*entity.Comment, error) {
	if err := requireActor(by); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("comment content is required")
	}

	comment := entity.Comment{
		ID:        s.newID(),
		UserID:    by.ID,
		Content:   content,
		CreatedAt: s.deps.Now(),
		Likes:     entity.LikeSet{},
		Replies:   []entity.Reply{},
	}

	err := s.rewriteThread(ctx, postID, func(p *entity.Post) error {
		p.Comments = append(p.Comments, comment)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

func (s *postStore) RemoveComment(ctx context.Context, by entity.Actor, postID, commentID string) error {
	return s.rewriteThread(ctx, postID, func(p *entity.Post) error {
		i := p.CommentIndex(commentID)
		if i < 0 {
			return domainerrors.ErrNotFound.WithDetails("comment " + commentID)
		}
		if err := requireAuthorOrAdmin(by, p.Comments[i].UserID); err != nil {
			return err
		}
		p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)

		return nil
	})
}

func (s *postStore) ToggleCommentLike(ctx context.Context, by entity.Actor, postID, commentID string) (bool, error) {
	if err := requireActor(by); err != nil {
		return false, err
	}

	var liked bool
	err := s.rewriteThread(ctx, postID, func(p *entity.Post) error {
		i := p.CommentIndex(commentID)
		if i < 0 {
			return domainerrors.ErrNotFound.WithDetails("comment " + commentID)
		}
		p.Comments[i].Likes, liked = p.Comments[i].Likes.Toggle(by.ID)

		return nil
	})
	if err != nil {
		return false, err
	}

	return liked, nil
}

func (s *postStore) IsCommentLiked(postID, commentID, actorID string) bool {
	post, ok := s.find(postID)
	if !ok {
		return false
	}
	i := post.CommentIndex(commentID)

	return i >= 0 && post.Comments[i].Likes.Contains(actorID)
}

func (s *postStore) AddReply(ctx context.Context, by entity.Actor, postID, commentID, content string) (*entity.Reply, error) {
	if err := requireActor(by); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("reply content is required")
	}

	reply := entity.Reply{
		ID:        s.newID(),
		UserID:    by.ID,
		Content:   content,
		CreatedAt: s.deps.Now(),
		Likes:     entity.LikeSet{},
	}

	err := s.rewriteThread(ctx, postID, func(p *entity.Post) error {
		i := p.CommentIndex(commentID)
		if i < 0 {
			return domainerrors.ErrNotFound.WithDetails("comment " + commentID)
		}
		p.Comments[i].Replies = append(p.Comments[i].Replies, reply)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &reply, nil
}

func (s *postStore) RemoveReply(ctx context.Context, by entity.Actor, postID, commentID, replyID string) error {
	return s.rewriteThread(ctx, postID, func(p *entity.Post) error {
		i, j, err := locateReply(p, commentID, replyID)
		if err != nil {
			return err
		}
		if err := requireAuthorOrAdmin(by, p.Comments[i].Replies[j].UserID); err != nil {
			return err
		}
		replies := p.Comments[i].Replies
		p.Comments[i].Replies = append(replies[:j], replies[j+1:]...)

		return nil
	})
}

func (s *postStore) ToggleReplyLike(ctx context.Context, by entity.Actor, postID, commentID, replyID string) (bool, error) {
	if err := requireActor(by); err != nil {
		return false, err
	}

	var liked bool
	err := s.rewriteThread(ctx, postID, func(p *entity.Post) error {
		i, j, err := locateReply(p, commentID, replyID)
		if err != nil {
			return err
		}
		reply := &p.Comments[i].Replies[j]
		reply.Likes, liked = reply.Likes.Toggle(by.ID)

		return nil
	})
	if err != nil {
		return false, err
	}

	return liked, nil
}

func (s *postStore) IsReplyLiked(postID, commentID, replyID, actorID string) bool {
	post, ok := s.find(postID)
	if !ok {
		return false
	}
	i, j, err := locateReply(&post, commentID, replyID)

	return err == nil && post.Comments[i].Replies[j].Likes.Contains(actorID)
}

func locateReply(p *entity.Post, commentID, replyID string) (int, int, error) {
	i := p.CommentIndex(commentID)
	if i < 0 {
		return 0, 0, domainerrors.ErrNotFound.WithDetails("comment " + commentID)
	}
	j := p.Comments[i].ReplyIndex(replyID)
	if j < 0 {
		return 0, 0, domainerrors.ErrNotFound.WithDetails("reply " + replyID)
	}

	return i, j, nil
}

func (s *postStore) Close() {
	s.close()
}
