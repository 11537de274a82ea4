package repository

import (
	"context"

	"aireading/internal/domain"
)

// RecommendationRepository defines persistence operations for celebrity
// recommendations.
type RecommendationRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, rec *domain.Recommendation) (int64, error)
	ListByBook(ctx context.Context, bookID int64, onlyActive bool, limit, offset int) ([]domain.Recommendation, error)
	CountByBook(ctx context.Context, bookID int64) (int, error)
	ListFeatured(ctx context.Context, limit int) ([]domain.Recommendation, error)
}
