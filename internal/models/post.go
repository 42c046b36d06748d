package models

import (
	"time"
)

// PostStatus is the publication lifecycle state of a blog post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// MaxSlugLength is the width of the slug column
const MaxSlugLength = 255

// ValidPostStatuses defines allowed post statuses
var ValidPostStatuses = map[PostStatus]bool{
	PostStatusDraft:     true,
	PostStatusPublished: true,
	PostStatusArchived:  true,
}

// Post represents a row of blog_posts
type Post struct {
	ID              int64      `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Slug            string     `json:"slug" db:"slug"`
	Excerpt         string     `json:"excerpt" db:"excerpt"`
	Content         string     `json:"content" db:"content"`
	MetaTitle       *string    `json:"meta_title" db:"meta_title"`
	MetaDescription *string    `json:"meta_description" db:"meta_description"`
	FeaturedImage   *string    `json:"featured_image" db:"featured_image"`
	Status          PostStatus `json:"status" db:"status"`
	AuthorID        int64      `json:"author_id" db:"author_id"`
	PublishedAt     *time.Time `json:"published_at" db:"published_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// IsPublic reports whether the post may be served on the public surface.
// published_at is informational only.
func (p *Post) IsPublic() bool {
	return p.Status == PostStatusPublished
}

// Author is the public projection of a user attached to a post
type Author struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// PostSummary is a listing row: the post joined with its author and comment counts
type PostSummary struct {
	Post
	AuthorName            string `json:"-" db:"author_name"`
	Author                Author `json:"author" db:"-"`
	CommentsCount         int    `json:"comments_count" db:"comments_count"`
	ApprovedCommentsCount int    `json:"approved_comments_count" db:"approved_comments_count"`
}

// PublicPostSummary is the listing row served to readers. It counts only
// approved comments.
type PublicPostSummary struct {
	*Post
	Author        Author `json:"author"`
	CommentsCount int    `json:"comments_count"`
}

// Public projects the summary for the public listing
func (s *PostSummary) Public() PublicPostSummary {
	return PublicPostSummary{
		Post:          &s.Post,
		Author:        s.Author,
		CommentsCount: s.ApprovedCommentsCount,
	}
}

// PostDetail is a single post with its author and the comments visible to the caller
type PostDetail struct {
	Post     *Post      `json:"post"`
	Author   Author     `json:"author"`
	Comments []*Comment `json:"comments"`
}

// PostInput carries the mutable fields of a post for create and full update
type PostInput struct {
	Title           string     `json:"title" form:"title"`
	Slug            string     `json:"slug" form:"slug"`
	Excerpt         string     `json:"excerpt" form:"excerpt"`
	Content         string     `json:"content" form:"content"`
	MetaTitle       string     `json:"meta_title" form:"meta_title"`
	MetaDescription string     `json:"meta_description" form:"meta_description"`
	FeaturedImage   string     `json:"featured_image" form:"featured_image"`
	Status          string     `json:"status" form:"status"`
	PublishedAt     *time.Time `json:"published_at" form:"published_at" time_format:"2006-01-02T15:04:05Z07:00"`
}
