package handler

import (
	"net/http"
	"time"

	deliverycontext "hub/internal/delivery/context"
	"hub/internal/delivery/http/response"
	"hub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PostHandlerParams holds dependencies for PostHandler, injected by Fx.
type PostHandlerParams struct {
	fx.In

	Posts usecase.PostStore
}

// PostHandler serves the social feed with its comments and replies.
type PostHandler struct {
	posts usecase.PostStore
	now   func() time.Time
}

// NewPostHandler is the constructor for PostHandler
func NewPostHandler(params PostHandlerParams) *PostHandler {
	return &PostHandler{posts: params.Posts, now: time.Now}
}

// ContentRequest is the body of a new comment or reply.
type ContentRequest struct {
	Content string `json:"content" validate:"required"`
}

// List returns the local feed, reloading it first on ?refresh=true.
func (h *PostHandler) List(c echo.Context) error {
	if refreshRequested(c) {
		if err := h.posts.Load(c.Request().Context()); err != nil {
			return response.HandleAppError(c, err)
		}
	}

	return response.List(c, h.posts.All())
}

// Popular ranks the feed by engagement within ?window (now, today or all).
func (h *PostHandler) Popular(c echo.Context) error {
	window := usecase.FeedWindow(c.QueryParam("window"))
	switch window {
	case "":
		window = usecase.WindowAll
	case usecase.WindowNow, usecase.WindowToday, usecase.WindowAll:
	default:
		return response.BadRequest(c, "INVALID_WINDOW", "window must be one of now, today, all")
	}

	return response.List(c, h.posts.Popular(window, h.now()))
}

// Create publishes a post.
func (h *PostHandler) Create(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	var input usecase.CreatePostInput
	if handled, err := bindAndValidate(c, &input); handled {
		return err
	}

	created, err := h.posts.Create(c.Request().Context(), by, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, created)
}

// Remove deletes a post with its thread.
func (h *PostHandler) Remove(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	if err := h.posts.Remove(c.Request().Context(), by, c.Param("id")); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ToggleLike likes or unlikes a post.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	liked, err := h.posts.ToggleLike(c.Request().Context(), by, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, likeResult{Liked: liked})
}

// AddComment appends a comment to a post.
func (h *PostHandler) AddComment(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	var req ContentRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	comment, err := h.posts.AddComment(c.Request().Context(), by, c.Param("id"), req.Content)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, comment)
}

// RemoveComment deletes a comment with its replies.
func (h *PostHandler) RemoveComment(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	if err := h.posts.RemoveComment(c.Request().Context(), by, c.Param("id"), c.Param("commentId")); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ToggleCommentLike likes or unlikes a comment.
func (h *PostHandler) ToggleCommentLike(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	liked, err := h.posts.ToggleCommentLike(c.Request().Context(), by, c.Param("id"), c.Param("commentId"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, likeResult{Liked: liked})
}

// AddReply answers a comment.
func (h *PostHandler) AddReply(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	var req ContentRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	reply, err := h.posts.AddReply(c.Request().Context(), by, c.Param("id"), c.Param("commentId"), req.Content)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, reply)
}

// RemoveReply deletes a reply.
func (h *PostHandler) RemoveReply(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	err := h.posts.RemoveReply(c.Request().Context(), by, c.Param("id"), c.Param("commentId"), c.Param("replyId"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ToggleReplyLike likes or unlikes a reply.
func (h *PostHandler) ToggleReplyLike(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	liked, err := h.posts.ToggleReplyLike(c.Request().Context(), by, c.Param("id"), c.Param("commentId"), c.Param("replyId"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, likeResult{Liked: liked})
}
