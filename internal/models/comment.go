package models

import (
	"time"
)

// CommentStatus is the moderation state of a comment
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
	CommentStatusSpam     CommentStatus = "spam"
)

// CommentStatusAll is the moderation queue filter that matches every status
const CommentStatusAll = "all"

// ValidCommentStatuses defines allowed comment statuses. Every status is
// reachable from every other one; pending is the only entry state.
var ValidCommentStatuses = map[CommentStatus]bool{
	CommentStatusPending:  true,
	CommentStatusApproved: true,
	CommentStatusRejected: true,
	CommentStatusSpam:     true,
}

// MaxCommentLength is the maximum number of characters in a comment body
const MaxCommentLength = 1000

// Comment represents a row of blog_comments
type Comment struct {
	ID            int64         `json:"id" db:"id"`
	PostID        int64         `json:"blog_post_id" db:"blog_post_id"`
	AuthorName    string        `json:"author_name" db:"author_name"`
	AuthorEmail   string        `json:"author_email" db:"author_email"`
	AuthorWebsite *string       `json:"author_website" db:"author_website"`
	Content       string        `json:"content" db:"content"`
	Status        CommentStatus `json:"status" db:"status"`
	IPAddress     *string       `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// IsPublic reports whether the comment may be served on the public surface
func (c *Comment) IsPublic() bool {
	return c.Status == CommentStatusApproved
}

// PostRef is the slice of a parent post shown next to a comment
type PostRef struct {
	ID     int64      `json:"id" db:"id"`
	Title  string     `json:"title" db:"title"`
	Slug   string     `json:"slug" db:"slug"`
	Status PostStatus `json:"status" db:"status"`
}

// CommentWithPost is a moderation row: a comment joined with its parent post
type CommentWithPost struct {
	Comment
	BlogPost PostRef `json:"blog_post" db:"blog_post"`
}

// CommentInput carries the fields a reader may submit. Status is accepted so
// that it can be ignored explicitly.
type CommentInput struct {
	AuthorName    string `json:"author_name" form:"author_name"`
	AuthorEmail   string `json:"author_email" form:"author_email"`
	AuthorWebsite string `json:"author_website" form:"author_website"`
	Content       string `json:"content" form:"content"`
	Status        string `json:"status" form:"status"`
}

// PublicComment is the projection of a comment served to readers. Email and
// IP address stay private.
type PublicComment struct {
	ID            int64     `json:"id"`
	AuthorName    string    `json:"author_name"`
	AuthorWebsite *string   `json:"author_website"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

// Public returns the reader-facing projection of c
func (c *Comment) Public() PublicComment {
	return PublicComment{
		ID:            c.ID,
		AuthorName:    c.AuthorName,
		AuthorWebsite: c.AuthorWebsite,
		Content:       c.Content,
		CreatedAt:     c.CreatedAt,
	}
}
