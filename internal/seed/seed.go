// Package seed fills an empty database with demo content: one author, a set
// of published and draft posts, and moderated comments on the published ones.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/repository"
	"github.com/personal-blog-api/internal/service"
	"github.com/rs/zerolog"
)

const (
	AuthorEmail    = "author@blog.com"
	AuthorName     = "Blog Author"
	AuthorPassword = "password"

	publishedPosts = 8
	draftPosts     = 3
)

var topics = []string{
	"Go", "PostgreSQL", "Testing", "Concurrency", "Deployment", "Observability",
	"API Design", "Caching", "Migrations", "Refactoring", "Security", "Tooling",
}

var angles = []string{
	"A Practical Guide to", "Lessons Learned from", "Getting Started with",
	"Rethinking", "Five Mistakes in", "Notes on",
}

var readers = []struct{ name, email string }{
	{"Alice Reader", "alice@example.com"},
	{"Bob Builder", "bob@example.com"},
	{"Carol Coder", "carol@example.com"},
	{"Dan Debugger", "dan@example.com"},
	{"Eve Engineer", "eve@example.com"},
}

// Result counts what a run created
type Result struct {
	Posts    int
	Skipped  int
	Comments map[models.CommentStatus]int
}

// Seeder writes demo content through the service layer so that every row
// passes the same validation as user input.
type Seeder struct {
	users    repository.UserRepository
	services *service.Services
	rng      *rand.Rand
	log      zerolog.Logger
}

// New creates a Seeder. The same seed yields the same content.
func New(users repository.UserRepository, services *service.Services, seed int64, log zerolog.Logger) *Seeder {
	return &Seeder{
		users:    users,
		services: services,
		rng:      rand.New(rand.NewSource(seed)),
		log:      log.With().Str("component", "seed").Logger(),
	}
}

// Run seeds the database. Posts whose slug already exists are skipped, so
// running twice does not duplicate content.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	author, err := s.author(ctx)
	if err != nil {
		return nil, err
	}
	actor := models.Actor{UserID: author.ID, Email: author.Email}

	result := &Result{Comments: make(map[models.CommentStatus]int)}
	titles := s.titles(publishedPosts + draftPosts)

	for i, title := range titles {
		status := models.PostStatusPublished
		if i >= publishedPosts {
			status = models.PostStatusDraft
		}

		post, err := s.services.Posts.Create(ctx, actor, s.postInput(title, status))
		if errors.Is(err, service.ErrSlugTaken) {
			result.Skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to seed post %q: %w", title, err)
		}
		result.Posts++

		if status != models.PostStatusPublished {
			continue
		}
		if err := s.comments(ctx, post.ID, result); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Int("posts", result.Posts).
		Int("skipped", result.Skipped).
		Interface("comments", result.Comments).
		Msg("Seeding completed")

	return result, nil
}

func (s *Seeder) author(ctx context.Context) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, AuthorEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to look up seed author: %w", err)
	}
	if user != nil {
		return user, nil
	}
	return s.services.Auth.CreateAdmin(ctx, AuthorName, AuthorEmail, AuthorPassword)
}

// titles returns n distinct titles in a seed-dependent order
func (s *Seeder) titles(n int) []string {
	all := make([]string, 0, len(topics)*len(angles))
	for _, angle := range angles {
		for _, topic := range topics {
			all = append(all, angle+" "+topic)
		}
	}
	s.rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:n]
}

func (s *Seeder) postInput(title string, status models.PostStatus) *models.PostInput {
	return &models.PostInput{
		Title:           title,
		Excerpt:         "A short tour of " + strings.ToLower(title) + ".",
		Content:         strings.Repeat("This post walks through "+title+" step by step. ", 4+s.rng.Intn(8)),
		MetaTitle:       truncate(title, 60),
		MetaDescription: truncate("Read about "+title+" on the blog.", 160),
		Status:          string(status),
	}
}

// comments adds 2-6 approved, 0-2 pending and, for one post in three, 1-2
// spam comments to postID
func (s *Seeder) comments(ctx context.Context, postID int64, result *Result) error {
	plan := []struct {
		status models.CommentStatus
		count  int
	}{
		{models.CommentStatusApproved, 2 + s.rng.Intn(5)},
		{models.CommentStatusPending, s.rng.Intn(3)},
	}
	if s.rng.Intn(3) == 0 {
		plan = append(plan, struct {
			status models.CommentStatus
			count  int
		}{models.CommentStatusSpam, 1 + s.rng.Intn(2)})
	}

	for _, step := range plan {
		for i := 0; i < step.count; i++ {
			reader := readers[s.rng.Intn(len(readers))]
			comment, err := s.services.Comments.Submit(ctx, postID, &models.CommentInput{
				AuthorName:  reader.name,
				AuthorEmail: reader.email,
				Content:     fmt.Sprintf("Comment %d from %s. Thanks for writing this up!", i+1, reader.name),
			}, "127.0.0.1")
			if err != nil {
				return fmt.Errorf("failed to seed comment on post %d: %w", postID, err)
			}

			if step.status != models.CommentStatusPending {
				if _, err := s.services.Moderation.Moderate(ctx, comment.ID, string(step.status)); err != nil {
					return fmt.Errorf("failed to moderate seeded comment %d: %w", comment.ID, err)
				}
			}
			result.Comments[step.status]++
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
