package service

import (
	"context"

	"github.com/personal-blog-api/internal/config"
	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/repository"
	"github.com/personal-blog-api/internal/validation"
	"github.com/rs/zerolog"
)

// defaultPerPage applies when a caller passes no page size
const defaultPerPage = 15

// PostService defines the interface for post authoring and reads
type PostService interface {
	List(ctx context.Context, filter repository.PostFilter, page models.PageRequest) (models.Page[*models.PostSummary], error)
	Create(ctx context.Context, actor models.Actor, in *models.PostInput) (*models.Post, error)
	Get(ctx context.Context, idOrSlug string, vis repository.Visibility) (*models.PostDetail, error)
	GetBySlug(ctx context.Context, slug string, vis repository.Visibility) (*models.PostDetail, error)
	GetByID(ctx context.Context, id int64, vis repository.Visibility) (*models.Post, error)
	Update(ctx context.Context, id int64, in *models.PostInput) (*models.Post, error)
	Delete(ctx context.Context, id int64) error
}

// CommentService defines the interface for comment submission and storage
type CommentService interface {
	Submit(ctx context.Context, postID int64, in *models.CommentInput, ip string) (*models.Comment, error)
	ListForPost(ctx context.Context, postID int64, onlyApproved bool) ([]*models.Comment, error)
	ListAll(ctx context.Context, status string, page models.PageRequest) (models.Page[*models.CommentWithPost], error)
	Get(ctx context.Context, id int64) (*models.CommentWithPost, error)
	SetStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// ModerationService defines the admin moderation workflow over comments
type ModerationService interface {
	Moderate(ctx context.Context, id int64, status string) (*ModerationOutcome, error)
	Approve(ctx context.Context, id int64) (*ModerationOutcome, error)
	Reject(ctx context.Context, id int64) (*ModerationOutcome, error)
	MarkAsSpam(ctx context.Context, id int64) (*ModerationOutcome, error)
	Requeue(ctx context.Context, id int64) (*ModerationOutcome, error)
}

// AuthService defines the interface for admin sessions
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Authenticate(ctx context.Context, token string) (*models.Actor, error)
	CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error)
}

// DashboardService defines the interface for admin statistics
type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

// Services holds all service interfaces
type Services struct {
	Posts      PostService
	Comments   CommentService
	Moderation ModerationService
	Auth       AuthService
	Dashboard  DashboardService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	v := validation.NewValidator()
	comments := newCommentService(repos, v, log)

	return &Services{
		Posts:      newPostService(repos, v, log),
		Comments:   comments,
		Moderation: newModerationService(comments, log),
		Auth:       newAuthService(repos.User, v, cfg.Auth, log),
		Dashboard:  &dashboardService{repos: repos},
	}
}
