package entity

import (
	"slices"
	"time"
)

// Post is a social feed entry. Comments and their replies are embedded in
// the post document, so removing the post removes them too.
type Post struct {
	ID        string    `firestore:"-" json:"id"`
	UserID    string    `firestore:"userId" json:"userId"`
	Content   string    `firestore:"content" json:"content"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	Likes     LikeSet   `firestore:"likes" json:"likes"`
	Comments  []Comment `firestore:"comments" json:"comments"`
	Images    []string  `firestore:"images,omitempty" json:"images,omitempty"`
	Link      string    `firestore:"link,omitempty" json:"link,omitempty"`
}

// Comment belongs to exactly one post.
type Comment struct {
	ID        string    `firestore:"id" json:"id"`
	UserID    string    `firestore:"userId" json:"userId"`
	Content   string    `firestore:"content" json:"content"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	Likes     LikeSet   `firestore:"likes" json:"likes"`
	Replies   []Reply   `firestore:"replies" json:"replies"`
}

// Reply belongs to exactly one comment.
type Reply struct {
	ID        string    `firestore:"id" json:"id"`
	UserID    string    `firestore:"userId" json:"userId"`
	Content   string    `firestore:"content" json:"content"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	Likes     LikeSet   `firestore:"likes" json:"likes"`
}

// CommentCount counts comments including their nested replies.
func (p Post) CommentCount() int {
	n := len(p.Comments)
	for _, c := range p.Comments {
		n += len(c.Replies)
	}

	return n
}

// EngagementScore weighs likes once and comments (replies included) twice.
func (p Post) EngagementScore() int {
	return p.Likes.Len() + 2*p.CommentCount()
}

// CommentIndex returns the position of the comment or -1.
func (p Post) CommentIndex(commentID string) int {
	return slices.IndexFunc(p.Comments, func(c Comment) bool { return c.ID == commentID })
}

// ReplyIndex returns the position of the reply or -1.
func (c Comment) ReplyIndex(replyID string) int {
	return slices.IndexFunc(c.Replies, func(r Reply) bool { return r.ID == replyID })
}

// Key returns the document id.
func (p Post) Key() string {
	return p.ID
}

// Clone returns a deep copy of the post and its thread.
func (p Post) Clone() Post {
	p.Likes = slices.Clone(p.Likes)
	p.Images = slices.Clone(p.Images)
	if p.Comments != nil {
		comments := make([]Comment, len(p.Comments))
		for i, c := range p.Comments {
			comments[i] = c.clone()
		}
		p.Comments = comments
	}

	return p
}

func (c Comment) clone() Comment {
	c.Likes = slices.Clone(c.Likes)
	if c.Replies != nil {
		replies := make([]Reply, len(c.Replies))
		for i, r := range c.Replies {
			r.Likes = slices.Clone(r.Likes)
			replies[i] = r
		}
		c.Replies = replies
	}

	return c
}

// Fields returns the document representation of the post.
func (p Post) Fields() map[string]any {
	fields := map[string]any{
		"userId":    p.UserID,
		"content":   p.Content,
		"createdAt": p.CreatedAt,
		"likes":     p.Likes.values(),
		"comments":  CommentFields(p.Comments),
	}
	if len(p.Images) > 0 {
		fields["images"] = slices.Clone(p.Images)
	}
	if p.Link != "" {
		fields["link"] = p.Link
	}

	return fields
}

// CommentFields encodes a comment thread for a partial post update.
func CommentFields(comments []Comment) []any {
	out := make([]any, 0, len(comments))
	for _, c := range comments {
		replies := make([]any, 0, len(c.Replies))
		for _, r := range c.Replies {
			replies = append(replies, map[string]any{
				"id":        r.ID,
				"userId":    r.UserID,
				"content":   r.Content,
				"createdAt": r.CreatedAt,
				"likes":     r.Likes.values(),
			})
		}
		out = append(out, map[string]any{
			"id":        c.ID,
			"userId":    c.UserID,
			"content":   c.Content,
			"createdAt": c.CreatedAt,
			"likes":     c.Likes.values(),
			"replies":   replies,
		})
	}

	return out
}
