package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/personal-blog-api/internal/database"
	"github.com/personal-blog-api/internal/models"
)

var postColumns = []string{
	"p.id", "p.title", "p.slug", "p.excerpt", "p.content",
	"p.meta_title", "p.meta_description", "p.featured_image",
	"p.status", "p.author_id", "p.published_at", "p.created_at", "p.updated_at",
}

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

// Create inserts a new post and fills in its generated id and timestamps
func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO blog_posts (title, slug, excerpt, content, meta_title, meta_description,
			featured_image, status, author_id, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	now := time.Now().UTC()
	err := r.db.QueryRowxContext(ctx, query,
		post.Title, post.Slug, post.Excerpt, post.Content, post.MetaTitle, post.MetaDescription,
		post.FeaturedImage, string(post.Status), post.AuthorID, post.PublishedAt, now, now,
	).Scan(&post.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	if err != nil {
		return err
	}

	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

// Update replaces every mutable field of the post. It reports false when
// no row has the post's id.
func (r *postRepo) Update(ctx context.Context, post *models.Post) (bool, error) {
	query := `
		UPDATE blog_posts SET title = $1, slug = $2, excerpt = $3, content = $4, meta_title = $5,
			meta_description = $6, featured_image = $7, status = $8, published_at = $9, updated_at = $10
		WHERE id = $11
	`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		post.Title, post.Slug, post.Excerpt, post.Content, post.MetaTitle,
		post.MetaDescription, post.FeaturedImage, string(post.Status), post.PublishedAt, now,
		post.ID,
	)
	if isUniqueViolation(err) {
		return false, ErrDuplicateSlug
	}
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		post.UpdatedAt = now
	}
	return n > 0, nil
}

// Delete removes a post. Its comments go with it through ON DELETE CASCADE.
func (r *postRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM blog_posts WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetByID retrieves a post by id, subject to vis
func (r *postRepo) GetByID(ctx context.Context, id int64, vis Visibility) (*models.Post, error) {
	return r.getOne(ctx, sq.Eq{"p.id": id}, vis)
}

// GetBySlug retrieves a post by slug, subject to vis
func (r *postRepo) GetBySlug(ctx context.Context, slug string, vis Visibility) (*models.Post, error) {
	return r.getOne(ctx, sq.Eq{"p.slug": slug}, vis)
}

func (r *postRepo) getOne(ctx context.Context, where sq.Sqlizer, vis Visibility) (*models.Post, error) {
	b := psql.Select(postColumns...).From("blog_posts p").Where(where)
	if pred := postVisibility(vis); pred != nil {
		b = b.Where(pred)
	}

	query, args, err := b.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build post query: %w", err)
	}

	var post models.Post
	err = r.db.GetContext(ctx, &post, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// SlugExists checks if a post other than excludeID already uses slug.
// Pass 0 to check against every post.
func (r *postRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowxContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug = $1 AND id <> $2)", slug, excludeID,
	).Scan(&exists)
	return exists, err
}

// List returns one page of posts joined with author name and comment counts,
// newest first, plus the total number of matching posts.
func (r *postRepo) List(ctx context.Context, filter PostFilter, page models.PageRequest) ([]*models.PostSummary, int, error) {
	countQuery, countArgs, err := filter.apply(psql.Select("COUNT(*)").From("blog_posts p")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build post count query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.PostSummary{}, 0, nil
	}

	b := psql.Select(postColumns...).
		Column("u.name AS author_name").
		Column("(SELECT COUNT(*) FROM blog_comments c WHERE c.blog_post_id = p.id) AS comments_count").
		Column("(SELECT COUNT(*) FROM blog_comments c WHERE c.blog_post_id = p.id AND c.status = ?) AS approved_comments_count",
			string(models.CommentStatusApproved)).
		From("blog_posts p").
		Join("users u ON u.id = p.author_id")
	b = filter.apply(b)

	if filter.Visibility == Public {
		b = b.OrderBy("p.published_at DESC NULLS LAST", "p.created_at DESC", "p.id DESC")
	} else {
		b = b.OrderBy("p.created_at DESC", "p.id DESC")
	}

	query, args, err := b.Limit(uint64(page.PerPage)).Offset(uint64(page.Offset())).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build post list query: %w", err)
	}

	posts := []*models.PostSummary{}
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, 0, err
	}
	for _, p := range posts {
		p.Author = models.Author{ID: p.AuthorID, Name: p.AuthorName}
	}

	return posts, total, nil
}

// CountByStatus returns the number of posts in each status
func (r *postRepo) CountByStatus(ctx context.Context) (map[models.PostStatus]int, error) {
	rows, err := r.db.QueryxContext(ctx, "SELECT status, COUNT(*) FROM blog_posts GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.PostStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[models.PostStatus(status)] = n
	}
	return counts, rows.Err()
}
