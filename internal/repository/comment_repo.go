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

var commentColumns = []string{
	"c.id", "c.blog_post_id", "c.author_name", "c.author_email", "c.author_website",
	"c.content", "c.status", "c.ip_address", "c.created_at", "c.updated_at",
}

// parentPostColumns map onto models.CommentWithPost.BlogPost
var parentPostColumns = []string{
	`p.id AS "blog_post.id"`,
	`p.title AS "blog_post.title"`,
	`p.slug AS "blog_post.slug"`,
	`p.status AS "blog_post.status"`,
}

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment and fills in its generated id and timestamps
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO blog_comments (blog_post_id, author_name, author_email, author_website,
			content, status, ip_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	now := time.Now().UTC()
	err := r.db.QueryRowxContext(ctx, query,
		comment.PostID, comment.AuthorName, comment.AuthorEmail, comment.AuthorWebsite,
		comment.Content, string(comment.Status), comment.IPAddress, now, now,
	).Scan(&comment.ID)
	if err != nil {
		return err
	}

	comment.CreatedAt = now
	comment.UpdatedAt = now
	return nil
}

func (r *commentRepo) withParent() sq.SelectBuilder {
	return psql.Select(commentColumns...).
		Columns(parentPostColumns...).
		From("blog_comments c").
		Join("blog_posts p ON p.id = c.blog_post_id")
}

// GetByID retrieves a comment and its parent post
func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.CommentWithPost, error) {
	query, args, err := r.withParent().Where(sq.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build comment query: %w", err)
	}

	var comment models.CommentWithPost
	err = r.db.GetContext(ctx, &comment, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForPost returns the comments of a post in submission order, subject to vis
func (r *commentRepo) ListForPost(ctx context.Context, postID int64, vis Visibility) ([]*models.Comment, error) {
	b := psql.Select(commentColumns...).
		From("blog_comments c").
		Where(sq.Eq{"c.blog_post_id": postID})
	if pred := commentVisibility(vis); pred != nil {
		b = b.Where(pred)
	}

	query, args, err := b.OrderBy("c.created_at ASC", "c.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build comment list query: %w", err)
	}

	comments := []*models.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, err
	}
	return comments, nil
}

// List returns one page of the moderation queue, newest first, plus the total
// number of matching comments.
func (r *commentRepo) List(ctx context.Context, filter CommentFilter, page models.PageRequest) ([]*models.CommentWithPost, int, error) {
	countQuery, countArgs, err := filter.apply(psql.Select("COUNT(*)").From("blog_comments c")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build comment count query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.CommentWithPost{}, 0, nil
	}

	query, args, err := filter.apply(r.withParent()).
		OrderBy("c.created_at DESC", "c.id DESC").
		Limit(uint64(page.PerPage)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build comment list query: %w", err)
	}

	comments := []*models.CommentWithPost{}
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// UpdateStatus sets the moderation status of a comment. It reports false when
// no row has the id. Setting the current status again still counts as a match.
func (r *commentRepo) UpdateStatus(ctx context.Context, id int64, status models.CommentStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE blog_comments SET status = $1, updated_at = $2 WHERE id = $3",
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete permanently removes a comment
func (r *commentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM blog_comments WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountByStatus returns the number of comments in each status
func (r *commentRepo) CountByStatus(ctx context.Context) (map[models.CommentStatus]int, error) {
	rows, err := r.db.QueryxContext(ctx, "SELECT status, COUNT(*) FROM blog_comments GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.CommentStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[models.CommentStatus(status)] = n
	}
	return counts, rows.Err()
}
