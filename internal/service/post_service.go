package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/repository"
	"github.com/personal-blog-api/internal/validation"
	"github.com/rs/zerolog"
)

// postService is the concrete implementation of PostService
type postService struct {
	posts     repository.PostRepository
	comments  repository.CommentRepository
	users     repository.UserRepository
	validator *validation.Validator
	log       zerolog.Logger
	now       func() time.Time
}

func newPostService(repos *repository.Repositories, v *validation.Validator, log zerolog.Logger) *postService {
	return &postService{
		posts:     repos.Post,
		comments:  repos.Comment,
		users:     repos.User,
		validator: v,
		log:       log.With().Str("service", "post").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns one page of posts, newest first
func (s *postService) List(ctx context.Context, filter repository.PostFilter, page models.PageRequest) (models.Page[*models.PostSummary], error) {
	page = page.Normalize(defaultPerPage)

	posts, total, err := s.posts.List(ctx, filter, page)
	if err != nil {
		return models.Page[*models.PostSummary]{}, fmt.Errorf("failed to list posts: %w", err)
	}
	return models.NewPage(posts, page, total), nil
}

// Create validates input and stores a new post authored by actor
func (s *postService) Create(ctx context.Context, actor models.Actor, in *models.PostInput) (*models.Post, error) {
	post := &models.Post{AuthorID: actor.UserID}
	if err := s.prepare(ctx, post, in, 0); err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusPublished && post.PublishedAt == nil {
		now := s.now()
		post.PublishedAt = &now
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.log.Info().
		Int64("post_id", post.ID).
		Str("slug", post.Slug).
		Str("status", string(post.Status)).
		Int64("author_id", post.AuthorID).
		Msg("Post created")

	return post, nil
}

// Get resolves a post by numeric id or by slug. A numeric key that matches no
// id is retried as a slug.
func (s *postService) Get(ctx context.Context, idOrSlug string, vis repository.Visibility) (*models.PostDetail, error) {
	var post *models.Post
	var err error

	if id, convErr := strconv.ParseInt(idOrSlug, 10, 64); convErr == nil && id > 0 {
		post, err = s.posts.GetByID(ctx, id, vis)
		if err != nil {
			return nil, fmt.Errorf("failed to get post %d: %w", id, err)
		}
	}
	if post == nil {
		return s.GetBySlug(ctx, idOrSlug, vis)
	}
	return s.detail(ctx, post, vis)
}

// GetBySlug returns the post with slug together with its author and the
// comments visible under vis
func (s *postService) GetBySlug(ctx context.Context, postSlug string, vis repository.Visibility) (*models.PostDetail, error) {
	post, err := s.posts.GetBySlug(ctx, postSlug, vis)
	if err != nil {
		return nil, fmt.Errorf("failed to get post %q: %w", postSlug, err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return s.detail(ctx, post, vis)
}

// GetByID returns the bare post row
func (s *postService) GetByID(ctx context.Context, id int64, vis repository.Visibility) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id, vis)
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

func (s *postService) detail(ctx context.Context, post *models.Post, vis repository.Visibility) (*models.PostDetail, error) {
	author := models.Author{ID: post.AuthorID}
	user, err := s.users.GetByID(ctx, post.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load author %d: %w", post.AuthorID, err)
	}
	if user != nil {
		author.Name = user.Name
	}

	comments, err := s.comments.ListForPost(ctx, post.ID, vis)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments for post %d: %w", post.ID, err)
	}

	return &models.PostDetail{Post: post, Author: author, Comments: comments}, nil
}

// Update replaces every mutable field of post id
func (s *postService) Update(ctx context.Context, id int64, in *models.PostInput) (*models.Post, error) {
	existing, err := s.GetByID(ctx, id, repository.Admin)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:        existing.ID,
		AuthorID:  existing.AuthorID,
		CreatedAt: existing.CreatedAt,
	}
	if err := s.prepare(ctx, post, in, id); err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusPublished && post.PublishedAt == nil {
		if existing.PublishedAt != nil {
			post.PublishedAt = existing.PublishedAt
		} else {
			now := s.now()
			post.PublishedAt = &now
		}
	}

	found, err := s.posts.Update(ctx, post)
	if errors.Is(err, repository.ErrDuplicateSlug) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post %d: %w", id, err)
	}
	if !found {
		return nil, ErrNotFound
	}

	s.log.Info().
		Int64("post_id", post.ID).
		Str("slug", post.Slug).
		Str("status", string(post.Status)).
		Msg("Post updated")

	return post, nil
}

// Delete removes post id and, through the foreign key, all of its comments
func (s *postService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.posts.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.log.Info().Int64("post_id", id).Msg("Post deleted")
	return nil
}

// prepare validates in and copies it onto post. excludeID is the post's own
// id for slug uniqueness, or 0 on create.
func (s *postService) prepare(ctx context.Context, post *models.Post, in *models.PostInput, excludeID int64) error {
	validation.TrimPost(in)

	if err := newValidationError(s.validator.Check(validation.PostRules, validation.PostValues(in))); err != nil {
		return err
	}

	postSlug := in.Slug
	if postSlug == "" {
		postSlug = deriveSlug(in.Title)
		if postSlug == "" {
			return fieldError("slug", "A slug could not be derived from the title.")
		}
	}

	taken, err := s.posts.SlugExists(ctx, postSlug, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if taken {
		return ErrSlugTaken
	}

	post.Title = in.Title
	post.Slug = postSlug
	post.Excerpt = in.Excerpt
	post.Content = in.Content
	post.MetaTitle = optional(in.MetaTitle)
	post.MetaDescription = optional(in.MetaDescription)
	post.FeaturedImage = optional(in.FeaturedImage)
	post.Status = models.PostStatus(in.Status)
	post.PublishedAt = in.PublishedAt
	return nil
}

// deriveSlug turns a title into a slug short enough for the slug column.
// Transliteration can make the slug longer than the title, so the result is
// cut at the last word boundary that fits.
func deriveSlug(title string) string {
	s := slug.Make(title)
	if len(s) <= models.MaxSlugLength {
		return s
	}
	s = s[:models.MaxSlugLength]
	if i := strings.LastIndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	return strings.Trim(s, "-")
}

// optional maps "" to NULL
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
