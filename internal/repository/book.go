package repository

import (
	"context"

	"aireading/internal/domain"
)

// BookRepository defines persistence operations for the catalog.
type BookRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, book *domain.Book) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Book, error)
	List(ctx context.Context, category string, limit, offset int) ([]domain.Book, error)
}
