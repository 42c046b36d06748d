package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/repository"
)

// Store is the in-memory backing shared by the mock repositories so that
// deleting a post cascades to its comments the way the foreign key does.
type Store struct {
	mu       sync.Mutex
	Users    map[int64]*models.User
	Posts    map[int64]*models.Post
	Comments map[int64]*models.Comment
	nextID   int64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		Users:    make(map[int64]*models.User),
		Posts:    make(map[int64]*models.Post),
		Comments: make(map[int64]*models.Comment),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// NewRepositories wires mock repositories over one store
func NewRepositories(store *Store) *repository.Repositories {
	return &repository.Repositories{
		User:    &MockUserRepository{Store: store},
		Post:    &MockPostRepository{Store: store},
		Comment: &MockCommentRepository{Store: store},
	}
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	*Store
	InsertError error
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	for _, u := range m.Users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range m.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	u, _ := m.GetByEmail(ctx, email)
	return u != nil, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), nil
}

// MockPostRepository is a mock implementation of PostRepository
type MockPostRepository struct {
	*Store
	InsertError error
}

var _ repository.PostRepository = (*MockPostRepository)(nil)

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.Posts {
		if p.Slug == post.Slug {
			return repository.ErrDuplicateSlug
		}
	}
	post.ID = m.id()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	stored := *post
	m.Posts[post.ID] = &stored
	return nil
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Posts[post.ID]; !ok {
		return false, nil
	}
	for _, p := range m.Posts {
		if p.Slug == post.Slug && p.ID != post.ID {
			return false, repository.ErrDuplicateSlug
		}
	}
	post.UpdatedAt = time.Now()
	stored := *post
	m.Posts[post.ID] = &stored
	return true, nil
}

func (m *MockPostRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Posts[id]; !ok {
		return false, nil
	}
	delete(m.Posts, id)
	for cid, c := range m.Comments {
		if c.PostID == id {
			delete(m.Comments, cid)
		}
	}
	return true, nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, id int64, vis repository.Visibility) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return visiblePost(m.Posts[id], vis), nil
}

func (m *MockPostRepository) GetBySlug(ctx context.Context, slug string, vis repository.Visibility) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Posts {
		if p.Slug == slug {
			return visiblePost(p, vis), nil
		}
	}
	return nil, nil
}

func visiblePost(p *models.Post, vis repository.Visibility) *models.Post {
	if p == nil || (vis == repository.Public && !p.IsPublic()) {
		return nil
	}
	cp := *p
	return &cp
}

func (m *MockPostRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Posts {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPostRepository) List(ctx context.Context, filter repository.PostFilter, page models.PageRequest) ([]*models.PostSummary, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []*models.PostSummary
	for _, p := range m.Posts {
		if filter.Visibility == repository.Public && !p.IsPublic() {
			continue
		}
		if filter.Visibility == repository.Admin && filter.Status != "" && p.Status != filter.Status {
			continue
		}
		row := &models.PostSummary{Post: *p, Author: models.Author{ID: p.AuthorID}}
		if u := m.Users[p.AuthorID]; u != nil {
			row.AuthorName = u.Name
			row.Author.Name = u.Name
		}
		for _, c := range m.Comments {
			if c.PostID != p.ID {
				continue
			}
			row.CommentsCount++
			if c.IsPublic() {
				row.ApprovedCommentsCount++
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if filter.Visibility == repository.Public {
			at, bt := publishedOrZero(a.PublishedAt), publishedOrZero(b.PublishedAt)
			if !at.Equal(bt) {
				return at.After(bt)
			}
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return paginate(rows, page), len(rows), nil
}

func publishedOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (m *MockPostRepository) CountByStatus(ctx context.Context) (map[models.PostStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[models.PostStatus]int)
	for _, p := range m.Posts {
		counts[p.Status]++
	}
	return counts, nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	*Store
	InsertError       error
	UpdateStatusCalls int
}

var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	comment.ID = m.id()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	m.Comments[comment.ID] = &stored
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.CommentWithPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.Comments[id]
	if c == nil {
		return nil, nil
	}
	return m.withPost(c), nil
}

func (m *MockCommentRepository) withPost(c *models.Comment) *models.CommentWithPost {
	row := &models.CommentWithPost{Comment: *c}
	if p := m.Posts[c.PostID]; p != nil {
		row.BlogPost = models.PostRef{ID: p.ID, Title: p.Title, Slug: p.Slug, Status: p.Status}
	}
	return row
}

func (m *MockCommentRepository) ListForPost(ctx context.Context, postID int64, vis repository.Visibility) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	comments := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if c.PostID != postID || (vis == repository.Public && !c.IsPublic()) {
			continue
		}
		cp := *c
		comments = append(comments, &cp)
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *MockCommentRepository) List(ctx context.Context, filter repository.CommentFilter, page models.PageRequest) ([]*models.CommentWithPost, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []*models.CommentWithPost
	for _, c := range m.Comments {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		rows = append(rows, m.withPost(c))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return paginate(rows, page), len(rows), nil
}

func (m *MockCommentRepository) UpdateStatus(ctx context.Context, id int64, status models.CommentStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateStatusCalls++

	c := m.Comments[id]
	if c == nil {
		return false, nil
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Comments[id]; !ok {
		return false, nil
	}
	delete(m.Comments, id)
	return true, nil
}

func (m *MockCommentRepository) CountByStatus(ctx context.Context) (map[models.CommentStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[models.CommentStatus]int)
	for _, c := range m.Comments {
		counts[c.Status]++
	}
	return counts, nil
}

func paginate[T any](rows []T, page models.PageRequest) []T {
	start := page.Offset()
	if start >= len(rows) {
		return nil
	}
	end := start + page.PerPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
