package service

import (
	"context"
	"strings"

	"github.com/personal-blog-api/internal/models"
	"github.com/rs/zerolog"
)

// moderationMessages is the admin-facing outcome text for each target status
var moderationMessages = map[models.CommentStatus]string{
	models.CommentStatusApproved: "Comment approved successfully.",
	models.CommentStatusRejected: "Comment rejected successfully.",
	models.CommentStatusSpam:     "Comment marked as spam.",
	models.CommentStatusPending:  "Comment moved back to pending review.",
}

// ModerationOutcome reports the result of a status change
type ModerationOutcome struct {
	CommentID int64                `json:"comment_id"`
	Status    models.CommentStatus `json:"status"`
	Message   string               `json:"message"`
}

// moderationService is the concrete implementation of ModerationService
type moderationService struct {
	comments CommentService
	log      zerolog.Logger
}

func newModerationService(comments CommentService, log zerolog.Logger) *moderationService {
	return &moderationService{
		comments: comments,
		log:      log.With().Str("service", "moderation").Logger(),
	}
}

// Moderate sets the status of comment id and describes the outcome
func (s *moderationService) Moderate(ctx context.Context, id int64, status string) (*ModerationOutcome, error) {
	status = strings.TrimSpace(status)
	if err := s.comments.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}

	target := models.CommentStatus(status)
	s.log.Info().
		Int64("comment_id", id).
		Str("status", status).
		Msg("Comment moderated")

	return &ModerationOutcome{
		CommentID: id,
		Status:    target,
		Message:   moderationMessages[target],
	}, nil
}

// Approve makes a comment publicly visible
func (s *moderationService) Approve(ctx context.Context, id int64) (*ModerationOutcome, error) {
	return s.Moderate(ctx, id, string(models.CommentStatusApproved))
}

// Reject hides a comment
func (s *moderationService) Reject(ctx context.Context, id int64) (*ModerationOutcome, error) {
	return s.Moderate(ctx, id, string(models.CommentStatusRejected))
}

// MarkAsSpam hides a comment and flags it as spam
func (s *moderationService) MarkAsSpam(ctx context.Context, id int64) (*ModerationOutcome, error) {
	return s.Moderate(ctx, id, string(models.CommentStatusSpam))
}

// Requeue sends a comment back to the pending queue
func (s *moderationService) Requeue(ctx context.Context, id int64) (*ModerationOutcome, error) {
	return s.Moderate(ctx, id, string(models.CommentStatusPending))
}
