package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/personal-blog-api/internal/config"
	"github.com/personal-blog-api/internal/models"
	"github.com/personal-blog-api/internal/repository"
	"github.com/personal-blog-api/internal/validation"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is a freshly issued admin session token
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// authService is the concrete implementation of AuthService
type authService struct {
	users     repository.UserRepository
	validator *validation.Validator
	secret    []byte
	ttl       time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func newAuthService(users repository.UserRepository, v *validation.Validator, cfg config.AuthConfig, log zerolog.Logger) *authService {
	return &authService{
		users:     users,
		validator: v,
		secret:    []byte(cfg.JWTSecret),
		ttl:       cfg.TokenTTL,
		log:       log.With().Str("service", "auth").Logger(),
		now:       time.Now,
	}
}

// Login checks credentials and issues a signed session token
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	values := map[string]string{"email": email, "password": password}
	if err := newValidationError(s.validator.Check(validation.LoginRules, values)); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Msg("Admin logged in")

	return &LoginResult{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate resolves a session token to the acting admin
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.Actor, error) {
	if tokenString == "" {
		return nil, ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %d: %w", userID, err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	return &models.Actor{UserID: user.ID, Email: user.Email}, nil
}

// CreateAdmin registers a new administrator with a bcrypt-hashed password
func (s *authService) CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	values := map[string]string{"name": name, "email": email, "password": password}
	if err := newValidationError(s.validator.Check(validation.AdminRules, values)); err != nil {
		return nil, err
	}

	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("Admin created")
	return user, nil
}
