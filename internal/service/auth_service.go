package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"time"

	"github.com/meetsync/meeting-service/internal/domain"
	"github.com/meetsync/meeting-service/internal/security"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type AuthResult struct {
	User        *domain.User
	AccessToken string
}

type AuthService struct {
	users      UserRepository
	tokens     *security.TokenManager
	passPolicy security.BcryptConfig
}

func NewAuthService(users UserRepository, tokens *security.TokenManager, passPolicy security.BcryptConfig) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		passPolicy: passPolicy,
	}
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidEmail
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		slog.Error("auth.signup.existsByEmail failed", slog.Any("err", err))
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	hash, err := security.HashPassword(password, &s.passPolicy)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleHost,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		slog.Error("auth.signup.createUser failed", slog.Any("err", err))
		return nil, err
	}

	access, err := s.tokens.SignAccessToken(u.ID, string(u.Role), "access")
	if err != nil {
		slog.Error("auth.signup.signToken failed", slog.Any("err", err))
		return nil, err
	}

	return &AuthResult{User: u, AccessToken: access}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidPassword
		}
		slog.Error("auth.login.getByEmail failed", slog.Any("err", err))
		return nil, err
	}

	if err := security.ComparePassword(u.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidPassword
	}
	if !u.IsActive {
		return nil, domain.ErrUserInactive
	}

	access, err := s.tokens.SignAccessToken(u.ID, string(u.Role), "access")
	if err != nil {
		slog.Error("auth.login.signToken failed", slog.Any("err", err))
		return nil, err
	}

	return &AuthResult{User: u, AccessToken: access}, nil
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) AccessTTL() time.Duration { return s.tokens.TTL() }
