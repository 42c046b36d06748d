package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"github.com/personal-blog-api/internal/database"
	"github.com/personal-blog-api/internal/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

var (
	// ErrDuplicateSlug is returned when a post write collides with an existing slug
	ErrDuplicateSlug = errors.New("repository: duplicate slug")
	// ErrDuplicateEmail is returned when a user write collides with an existing email
	ErrDuplicateEmail = errors.New("repository: duplicate email")
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// PostRepository defines the interface for post data operations.
// Getters return (nil, nil) when no row matches.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64, vis Visibility) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string, vis Visibility) (*models.Post, error)
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
	List(ctx context.Context, filter PostFilter, page models.PageRequest) ([]*models.PostSummary, int, error)
	CountByStatus(ctx context.Context) (map[models.PostStatus]int, error)
}

// CommentRepository defines the interface for comment data operations.
// Getters return (nil, nil) when no row matches.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.CommentWithPost, error)
	ListForPost(ctx context.Context, postID int64, vis Visibility) ([]*models.Comment, error)
	List(ctx context.Context, filter CommentFilter, page models.PageRequest) ([]*models.CommentWithPost, int, error)
	UpdateStatus(ctx context.Context, id int64, status models.CommentStatus) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	CountByStatus(ctx context.Context) (map[models.CommentStatus]int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Post    PostRepository
	Comment CommentRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepo(db),
		Post:    NewPostRepo(db),
		Comment: NewCommentRepo(db),
	}
}
