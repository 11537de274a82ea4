package repository

import (
	"context"
	"time"

	"aireading/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, update domain.UserUpdate) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	Deactivate(ctx context.Context, id int64) error
}
