package service

import (
	"context"
	"fmt"
	"time"

	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/repository"
)

// DashboardStats summarizes content for the admin landing page
type DashboardStats struct {
	Posts     map[models.PostStatus]int    `json:"posts"`
	Comments  map[models.CommentStatus]int `json:"comments"`
	Users     int                          `json:"users"`
	Timestamp string                       `json:"timestamp"`
}

// dashboardService is the concrete implementation of DashboardService
type dashboardService struct {
	repos *repository.Repositories
}

// Stats counts posts and comments per status. Statuses with no rows are reported as 0.
func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	posts, err := s.repos.Post.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}
	comments, err := s.repos.Comment.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	users, err := s.repos.User.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	stats := &DashboardStats{
		Posts:     make(map[models.PostStatus]int, len(models.ValidPostStatuses)),
		Comments:  make(map[models.CommentStatus]int, len(models.ValidCommentStatuses)),
		Users:     users,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	for status := range models.ValidPostStatuses {
		stats.Posts[status] = posts[status]
	}
	for status := range models.ValidCommentStatuses {
		stats.Comments[status] = comments[status]
	}
	return stats, nil
}
