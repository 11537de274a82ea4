package service

import (
	"context"
	"strings"
	"time"

	"aireading/internal/auth"
	"aireading/internal/domain"
	"aireading/internal/repository"
)

// UserService describes account lifecycle operations. Every user it
// returns is sanitized: the password hash never leaves this package.
type UserService interface {
	Register(ctx context.Context, email, password, username, locale string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetActive(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, update domain.UserUpdate) (*domain.User, error)
}

type userService struct {
	users  repository.UserRepository
	hasher *auth.Hasher
}

func NewUserService(users repository.UserRepository, hasher *auth.Hasher) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
	}
}

func (s *userService) Register(ctx context.Context, email, password, username, locale string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if locale != "zh" {
		locale = "en"
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Username:     username,
		Locale:       locale,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserDeactivated
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetActive(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserDeactivated
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id int64, update domain.UserUpdate) (*domain.User, error) {
	if !update.Empty() {
		if err := s.users.Update(ctx, id, update); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "not found") {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}
	return s.GetActive(ctx, id)
}

// sanitizeUser copies the record without the password hash. Calling it
// on an already sanitized user is a no-op.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
