package service_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/personal-blog-api/internal/config"
	"github.com/personal-blog-api/internal/mocks"
	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/repository"
	"github.com/personal-blog-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *mocks.Store
	repos    *repository.Repositories
	services *service.Services
	admin    models.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := mocks.NewStore()
	repos := mocks.NewRepositories(store)

	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour

	services := service.NewServices(repos, cfg, zerolog.Nop())

	admin := &models.User{Name: "Admin User", Email: "admin@example.com", PasswordHash: "x"}
	require.NoError(t, repos.User.Create(context.Background(), admin))

	return &fixture{
		store:    store,
		repos:    repos,
		services: services,
		admin:    models.Actor{UserID: admin.ID, Email: admin.Email},
	}
}

func validPost(title, status string) *models.PostInput {
	return &models.PostInput{
		Title:   title,
		Excerpt: "A short excerpt.",
		Content: "Body of the post.",
		Status:  status,
	}
}

func (f *fixture) createPost(t *testing.T, title, status string) *models.Post {
	t.Helper()
	post, err := f.services.Posts.Create(context.Background(), f.admin, validPost(title, status))
	require.NoError(t, err)
	return post
}

func validComment() *models.CommentInput {
	return &models.CommentInput{
		AuthorName:  "John Doe",
		AuthorEmail: "john@example.com",
		Content:     "This is a test comment.",
	}
}

func TestPostService_CreateDerivesSlugAndAuthor(t *testing.T) {
	f := newFixture(t)

	post := f.createPost(t, "Test Blog Post", "draft")

	assert.Equal(t, "test-blog-post", post.Slug)
	assert.Equal(t, f.admin.UserID, post.AuthorID)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
}

func TestPostService_CreatePublishedStampsDate(t *testing.T) {
	f := newFixture(t)

	post := f.createPost(t, "Going Live", "published")
	require.NotNil(t, post.PublishedAt)

	given := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	in := validPost("Backdated", "published")
	in.PublishedAt = &given
	backdated, err := f.services.Posts.Create(context.Background(), f.admin, in)
	require.NoError(t, err)
	assert.True(t, backdated.PublishedAt.Equal(given))
}

func TestPostService_DerivedSlugFitsColumn(t *testing.T) {
	f := newFixture(t)

	// every "&" expands to "and", so the slug outgrows the 255 rune title
	title := strings.Repeat("& ", 127) + "a"
	require.Len(t, []rune(title), 255)

	post, err := f.services.Posts.Create(context.Background(), f.admin, validPost(title, "draft"))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(post.Slug), models.MaxSlugLength)
	assert.True(t, strings.HasPrefix(post.Slug, "and-and-"))
	assert.False(t, strings.HasSuffix(post.Slug, "-"))
}

func TestPostService_CreateDuplicateSlug(t *testing.T) {
	f := newFixture(t)
	f.createPost(t, "Test Blog Post", "draft")

	_, err := f.services.Posts.Create(context.Background(), f.admin, validPost("Test Blog Post", "draft"))
	assert.ErrorIs(t, err, service.ErrSlugTaken)
	assert.Len(t, f.store.Posts, 1)
}

func TestPostService_CreateValidation(t *testing.T) {
	f := newFixture(t)

	in := &models.PostInput{Title: "  ", Slug: "Not A Slug", Status: "live"}
	_, err := f.services.Posts.Create(context.Background(), f.admin, in)

	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"title", "slug", "excerpt", "content", "status"}, verr.Fields.Fields())
	assert.Empty(t, f.store.Posts)
}

func TestPostService_UpdateKeepsSlugAndPublishedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.createPost(t, "Original Title", "published")
	originalPublished := *post.PublishedAt

	in := validPost("Original Title", "published")
	in.Slug = "original-title"
	in.Content = "Rewritten."
	updated, err := f.services.Posts.Update(ctx, post.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "original-title", updated.Slug)
	assert.Equal(t, "Rewritten.", updated.Content)
	assert.Equal(t, f.admin.UserID, updated.AuthorID)
	assert.True(t, updated.PublishedAt.Equal(originalPublished))
}

func TestPostService_UpdateSlugCollision(t *testing.T) {
	f := newFixture(t)
	f.createPost(t, "First", "draft")
	second := f.createPost(t, "Second", "draft")

	in := validPost("Second", "draft")
	in.Slug = "first"
	_, err := f.services.Posts.Update(context.Background(), second.ID, in)
	assert.ErrorIs(t, err, service.ErrSlugTaken)
}

func TestPostService_UpdateMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.services.Posts.Update(context.Background(), 999, validPost("Ghost", "draft"))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPostService_PublicVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createPost(t, "Draft Post", "draft")
	f.createPost(t, "Archived Post", "archived")
	published := f.createPost(t, "Published Post", "published")

	page, err := f.services.Posts.List(ctx, repository.PostFilter{Visibility: repository.Public}, models.PageRequest{PerPage: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, published.ID, page.Data[0].ID)
	assert.Equal(t, "Admin User", page.Data[0].Author.Name)

	for _, slug := range []string{"draft-post", "archived-post"} {
		_, err := f.services.Posts.GetBySlug(ctx, slug, repository.Public)
		assert.ErrorIs(t, err, service.ErrNotFound, slug)

		detail, err := f.services.Posts.GetBySlug(ctx, slug, repository.Admin)
		require.NoError(t, err, slug)
		assert.Equal(t, slug, detail.Post.Slug)
	}

	admin, err := f.services.Posts.List(ctx, repository.PostFilter{Visibility: repository.Admin}, models.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, admin.Total)
	assert.Equal(t, 15, admin.PerPage)
}

func TestPostService_ListPagination(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 12; i++ {
		f.createPost(t, "Post "+string(rune('A'+i)), "published")
	}

	page, err := f.services.Posts.List(context.Background(),
		repository.PostFilter{Visibility: repository.Public},
		models.PageRequest{Page: 2, PerPage: 10})
	require.NoError(t, err)

	assert.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	assert.Equal(t, 12, page.Total)
}

func TestPostService_GetByIDOrSlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.createPost(t, "Lookup Me", "draft")

	byID, err := f.services.Posts.Get(ctx, strconv.FormatInt(post.ID, 10), repository.Admin)
	require.NoError(t, err)
	assert.Equal(t, post.ID, byID.Post.ID)

	bySlug, err := f.services.Posts.Get(ctx, "lookup-me", repository.Admin)
	require.NoError(t, err)
	assert.Equal(t, post.ID, bySlug.Post.ID)
	assert.Equal(t, "Admin User", bySlug.Author.Name)

	_, err = f.services.Posts.Get(ctx, "404", repository.Admin)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestPostService_DeleteCascadesComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.createPost(t, "Doomed", "published")
	keep := f.createPost(t, "Survivor", "published")

	for i := 0; i < 3; i++ {
		_, err := f.services.Comments.Submit(ctx, post.ID, validComment(), "127.0.0.1")
		require.NoError(t, err)
	}
	_, err := f.services.Comments.Submit(ctx, keep.ID, validComment(), "127.0.0.1")
	require.NoError(t, err)

	require.NoError(t, f.services.Posts.Delete(ctx, post.ID))

	for _, c := range f.store.Comments {
		assert.NotEqual(t, post.ID, c.PostID, "orphaned comment %d", c.ID)
	}
	assert.Len(t, f.store.Comments, 1)
	assert.ErrorIs(t, f.services.Posts.Delete(ctx, post.ID), service.ErrNotFound)
}

func TestCommentService_SubmitForcesPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.createPost(t, "Commentable", "published")

	for _, status := range []string{"", "approved", "spam", "rejected", "bogus"} {
		in := validComment()
		in.Status = status

		comment, err := f.services.Comments.Submit(ctx, post.ID, in, "10.0.0.1")
		require.NoError(t, err, status)
		assert.Equal(t, models.CommentStatusPending, comment.Status, status)
		assert.Equal(t, post.ID, comment.PostID)
		require.NotNil(t, comment.IPAddress)
		assert.Equal(t, "10.0.0.1", *comment.IPAddress)
	}
}

func TestCommentService_SubmitUnknownPost(t *testing.T) {
	f := newFixture(t)
	_, err := f.services.Comments.Submit(context.Background(), 42, validComment(), "")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCommentService_SubmitValidation(t *testing.T) {
	f := newFixture(t)
	post := f.createPost(t, "Strict", "published")

	in := &models.CommentInput{
		AuthorEmail:   "not-an-email",
		AuthorWebsite: "nope",
		Content:       strings.Repeat("x", models.MaxCommentLength+1),
	}
	_, err := f.services.Comments.Submit(context.Background(), post.ID, in, "")

	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []string{"author_name", "author_email", "author_website", "content"}, verr.Fields.Fields())
	assert.Equal(t, "Comment cannot exceed 1000 characters.", verr.Fields.First("content"))
	assert.Empty(t, f.store.Comments)
}

func TestCommentService_ListAllByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.createPost(t, "Busy", "published")

	var ids []int64
	for i := 0; i < 25; i++ {
		c, err := f.services.Comments.Submit(ctx, post.ID, validComment(), "")
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	require.NoError(t, f.services.Comments.SetStatus(ctx, ids[0], "approved"))

	pending, err := f.services.Comments.ListAll(ctx, "pending", models.PageRequest{PerPage: 20})
	require.NoError(t, err)
	assert.Len(t, pending.Data, 20)
	assert.Equal(t, 24, pending.Total)
	assert.Equal(t, 2, pending.LastPage)
	for _, c := range pending.Data {
		assert.Equal(t, models.CommentStatusPending, c.Status)
		assert.Equal(t, "busy", c.BlogPost.Slug)
	}

	all, err := f.services.Comments.ListAll(ctx, "all", models.PageRequest{PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, 25, all.Total)

	_, err = f.services.Comments.ListAll(ctx, "deleted", models.PageRequest{})
	var verr *service.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestCommentService_SetStatusIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.createPost(t, "Moderated", "published")
	comment, err := f.services.Comments.Submit(ctx, post.ID, validComment(), "")
	require.NoError(t, err)

	for _, status := range []string{"pending", "approved", "rejected", "spam"} {
		require.NoError(t, f.services.Comments.SetStatus(ctx, comment.ID, status))
		require.NoError(t, f.services.Comments.SetStatus(ctx, comment.ID, status))
		assert.Equal(t, models.CommentStatus(status), f.store.Comments[comment.ID].Status)
	}
}

func TestCommentService_SetStatusErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.createPost(t, "Moderated", "published")
	comment, err := f.services.Comments.Submit(ctx, post.ID, validComment(), "")
	require.NoError(t, err)

	err = f.services.Comments.SetStatus(ctx, comment.ID, "published")
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "The selected status is invalid.", verr.Fields.First("status"))
	assert.Equal(t, models.CommentStatusPending, f.store.Comments[comment.ID].Status)

	assert.ErrorIs(t, f.services.Comments.SetStatus(ctx, 999, "approved"), service.ErrNotFound)
}

func TestModerationService_ApproveMakesCommentPublic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.createPost(t, "Readable", "published")
	comment, err := f.services.Comments.Submit(ctx, post.ID, validComment(), "")
	require.NoError(t, err)

	detail, err := f.services.Posts.GetBySlug(ctx, "readable", repository.Public)
	require.NoError(t, err)
	assert.Empty(t, detail.Comments)

	outcome, err := f.services.Moderation.Approve(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusApproved, outcome.Status)
	assert.Equal(t, "Comment approved successfully.", outcome.Message)

	detail, err = f.services.Posts.GetBySlug(ctx, "readable", repository.Public)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, comment.ID, detail.Comments[0].ID)

	_, err = f.services.Moderation.MarkAsSpam(ctx, comment.ID)
	require.NoError(t, err)
	visible, err := f.services.Comments.ListForPost(ctx, post.ID, true)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := f.services.Comments.ListForPost(ctx, post.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestModerationService_Messages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.createPost(t, "Messages", "published")
	comment, err := f.services.Comments.Submit(ctx, post.ID, validComment(), "")
	require.NoError(t, err)

	tests := []struct {
		status string
		want   string
	}{
		{"approved", "Comment approved successfully."},
		{" rejected ", "Comment rejected successfully."},
		{"spam", "Comment marked as spam."},
		{"pending", "Comment moved back to pending review."},
	}
	for _, tt := range tests {
		outcome, err := f.services.Moderation.Moderate(ctx, comment.ID, tt.status)
		require.NoError(t, err, tt.status)
		assert.Equal(t, tt.want, outcome.Message)
	}
}

func TestModerationService_RejectAndRequeue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.createPost(t, "Second Thoughts", "published")
	comment, err := f.services.Comments.Submit(ctx, post.ID, validComment(), "")
	require.NoError(t, err)

	outcome, err := f.services.Moderation.Reject(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusRejected, outcome.Status)
	assert.Equal(t, models.CommentStatusRejected, f.store.Comments[comment.ID].Status)

	outcome, err = f.services.Moderation.Requeue(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusPending, outcome.Status)
	assert.Equal(t, "Comment moved back to pending review.", outcome.Message)

	queue, err := f.services.Comments.ListAll(ctx, "pending", models.PageRequest{})
	require.NoError(t, err)
	require.Len(t, queue.Data, 1)
	assert.Equal(t, comment.ID, queue.Data[0].ID)

	_, err = f.services.Moderation.Reject(ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.services.Auth.CreateAdmin(ctx, "Jane Admin", "Jane@Example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	_, err = f.services.Auth.Login(ctx, "jane@example.com", "wrong password")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	result, err := f.services.Auth.Login(ctx, "jane@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	actor, err := f.services.Auth.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.UserID)

	_, err = f.services.Auth.Authenticate(ctx, result.Token+"x")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = f.services.Auth.CreateAdmin(ctx, "Dup", "JANE@example.com", "another password")
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestDashboardService_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := f.createPost(t, "Counted", "published")
	f.createPost(t, "Pending Draft", "draft")
	_, err := f.services.Comments.Submit(ctx, post.ID, validComment(), "")
	require.NoError(t, err)

	stats, err := f.services.Dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Posts[models.PostStatusPublished])
	assert.Equal(t, 1, stats.Posts[models.PostStatusDraft])
	assert.Equal(t, 0, stats.Posts[models.PostStatusArchived])
	assert.Equal(t, 1, stats.Comments[models.CommentStatusPending])
	assert.Equal(t, 1, stats.Users)
}
