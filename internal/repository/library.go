package repository

import (
	"context"

	"aireading/internal/domain"
)

// FavoriteRepository defines persistence operations for saved books.
type FavoriteRepository interface {
	Init(ctx context.Context) error
	Add(ctx context.Context, fav *domain.Favorite) (int64, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Favorite, error)
	IsFavorited(ctx context.Context, userID, bookID int64) (bool, error)
	Remove(ctx context.Context, userID, bookID int64) (bool, error)
}

// HistoryRepository defines persistence operations for listening history.
// One row exists per (user, book, summary type).
type HistoryRepository interface {
	Init(ctx context.Context) error
	Get(ctx context.Context, userID, bookID int64, summaryType domain.SummaryType) (*domain.History, error)
	Create(ctx context.Context, history *domain.History) (int64, error)
	UpdateProgress(ctx context.Context, id int64, progressSeconds int, playbackSpeed float64, completed bool) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.History, error)
}
