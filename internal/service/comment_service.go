package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/repository"
	"github.com/personal-blog-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	posts     repository.PostRepository
	comments  repository.CommentRepository
	validator *validation.Validator
	log       zerolog.Logger
}

func newCommentService(repos *repository.Repositories, v *validation.Validator, log zerolog.Logger) *commentService {
	return &commentService{
		posts:     repos.Post,
		comments:  repos.Comment,
		validator: v,
		log:       log.With().Str("service", "comment").Logger(),
	}
}

// Submit stores a reader's comment on postID. The stored status is always
// pending, whatever the input carries.
func (s *commentService) Submit(ctx context.Context, postID int64, in *models.CommentInput, ip string) (*models.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID, repository.Admin)
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", postID, err)
	}
	if post == nil {
		return nil, ErrNotFound
	}

	validation.TrimComment(in)
	if err := newValidationError(s.validator.Check(validation.CommentRules, validation.CommentValues(in))); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:        post.ID,
		AuthorName:    in.AuthorName,
		AuthorEmail:   in.AuthorEmail,
		AuthorWebsite: optional(in.AuthorWebsite),
		Content:       in.Content,
		Status:        models.CommentStatusPending,
		IPAddress:     optional(ip),
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	event := s.log.Info().
		Int64("comment_id", comment.ID).
		Int64("post_id", post.ID).
		Str("ip", ip)
	if in.Status != "" && in.Status != string(models.CommentStatusPending) {
		event = event.Str("ignored_status", in.Status)
	}
	event.Msg("Comment submitted for moderation")

	return comment, nil
}

// ListForPost returns a post's comments in submission order
func (s *commentService) ListForPost(ctx context.Context, postID int64, onlyApproved bool) ([]*models.Comment, error) {
	vis := repository.Admin
	if onlyApproved {
		vis = repository.Public
	}

	comments, err := s.comments.ListForPost(ctx, postID, vis)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for post %d: %w", postID, err)
	}
	return comments, nil
}

// ListAll returns one page of the moderation queue across all posts. status
// "" or "all" matches every status.
func (s *commentService) ListAll(ctx context.Context, status string, page models.PageRequest) (models.Page[*models.CommentWithPost], error) {
	filter, err := parseCommentFilter(status)
	if err != nil {
		return models.Page[*models.CommentWithPost]{}, err
	}
	page = page.Normalize(defaultPerPage)

	comments, total, err := s.comments.List(ctx, filter, page)
	if err != nil {
		return models.Page[*models.CommentWithPost]{}, fmt.Errorf("failed to list comments: %w", err)
	}
	return models.NewPage(comments, page, total), nil
}

func parseCommentFilter(status string) (repository.CommentFilter, error) {
	status = strings.TrimSpace(status)
	if status == "" || status == models.CommentStatusAll {
		return repository.CommentFilter{}, nil
	}
	if !models.ValidCommentStatuses[models.CommentStatus(status)] {
		return repository.CommentFilter{}, fieldError("status", "The selected status is invalid.")
	}
	return repository.CommentFilter{Status: models.CommentStatus(status)}, nil
}

// Get returns a comment together with its parent post
func (s *commentService) Get(ctx context.Context, id int64) (*models.CommentWithPost, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment %d: %w", id, err)
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	return comment, nil
}

// SetStatus moves a comment to status. Any status may follow any other;
// repeating the current status is a no-op success.
func (s *commentService) SetStatus(ctx context.Context, id int64, status string) error {
	status = strings.TrimSpace(status)
	if err := newValidationError(s.validator.Check(validation.ModerationRules, map[string]string{"status": status})); err != nil {
		return err
	}

	found, err := s.comments.UpdateStatus(ctx, id, models.CommentStatus(status))
	if err != nil {
		return fmt.Errorf("failed to update comment %d: %w", id, err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// Delete permanently removes a comment
func (s *commentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.comments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.log.Info().Int64("comment_id", id).Msg("Comment deleted")
	return nil
}
