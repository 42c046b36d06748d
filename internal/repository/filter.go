package repository

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/personal-blog-api/internal/models"
)

// psql builds statements with PostgreSQL $n placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Visibility selects which rows a read may return
type Visibility int

const (
	// Public restricts reads to published posts and approved comments
	Public Visibility = iota
	// Admin returns rows in every status
	Admin
)

// PublishedPosts is the publication predicate for blog_posts aliased as p
func PublishedPosts() sq.Sqlizer {
	return sq.Eq{"p.status": string(models.PostStatusPublished)}
}

// ApprovedComments is the publication predicate for blog_comments aliased as c
func ApprovedComments() sq.Sqlizer {
	return sq.Eq{"c.status": string(models.CommentStatusApproved)}
}

// postVisibility returns the predicate to apply to posts for vis, or nil
func postVisibility(vis Visibility) sq.Sqlizer {
	if vis == Public {
		return PublishedPosts()
	}
	return nil
}

// commentVisibility returns the predicate to apply to comments for vis, or nil
func commentVisibility(vis Visibility) sq.Sqlizer {
	if vis == Public {
		return ApprovedComments()
	}
	return nil
}

// PostFilter narrows a post listing
type PostFilter struct {
	Visibility Visibility
	// Status restricts an admin listing to one status; ignored for public reads
	Status models.PostStatus
}

func (f PostFilter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if pred := postVisibility(f.Visibility); pred != nil {
		return b.Where(pred)
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"p.status": string(f.Status)})
	}
	return b
}

// CommentFilter narrows the moderation queue. An empty Status matches every status.
type CommentFilter struct {
	Status models.CommentStatus
}

func (f CommentFilter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	if f.Status != "" {
		b = b.Where(sq.Eq{"c.status": string(f.Status)})
	}
	return b
}
