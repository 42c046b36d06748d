package mocks

import (
	"context"
	"time"

	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/service"
)

// MockAuthService is a mock implementation of AuthService. Tokens map
// directly to actors; anything else is rejected.
type MockAuthService struct {
	Tokens      map[string]models.Actor
	Credentials map[string]string
	LoginFunc   func(ctx context.Context, email, password string) (*service.LoginResult, error)
	Created     []*models.User
}

// Verify interface compliance
var _ service.AuthService = (*MockAuthService)(nil)

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{
		Tokens:      make(map[string]models.Actor),
		Credentials: make(map[string]string),
	}
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	if pw, ok := m.Credentials[email]; !ok || pw != password {
		return nil, service.ErrUnauthorized
	}
	token := "token-" + email
	m.Tokens[token] = models.Actor{UserID: 1, Email: email}
	return &service.LoginResult{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
		User:      &models.User{ID: 1, Email: email},
	}, nil
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.Actor, error) {
	actor, ok := m.Tokens[token]
	if !ok {
		return nil, service.ErrUnauthorized
	}
	return &actor, nil
}

func (m *MockAuthService) CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	user := &models.User{ID: int64(len(m.Created) + 1), Name: name, Email: email}
	m.Created = append(m.Created, user)
	m.Credentials[email] = password
	return user, nil
}

// MockDashboardService is a mock implementation of DashboardService
type MockDashboardService struct {
	Result *service.DashboardStats
	Err    error
}

// Verify interface compliance
var _ service.DashboardService = (*MockDashboardService)(nil)

func (m *MockDashboardService) Stats(ctx context.Context) (*service.DashboardStats, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result == nil {
		return &service.DashboardStats{
			Posts:    map[models.PostStatus]int{},
			Comments: map[models.CommentStatus]int{},
		}, nil
	}
	return m.Result, nil
}
