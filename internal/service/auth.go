package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"petgame-backend/internal/auth"
	"petgame-backend/internal/model"
	"petgame-backend/internal/repository"
)

// AuthService handles registration and login.
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
	now      func() time.Time
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, now: time.Now}
}

// Register creates an account and returns a signed token.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.Create(ctx, username, email, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, s.now())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, s.now())
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
