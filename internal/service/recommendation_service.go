package service

import (
	"context"

	"aireading/internal/domain"
	"aireading/internal/repository"
)

// RecommendationService exposes celebrity endorsements for display.
type RecommendationService interface {
	ListByBook(ctx context.Context, bookID int64, limit, offset int) ([]domain.Recommendation, error)
	ListFeatured(ctx context.Context, limit int) ([]domain.Recommendation, error)
	CountByBook(ctx context.Context, bookID int64) (int, error)
}

type recommendationService struct {
	recs repository.RecommendationRepository
}

func NewRecommendationService(recs repository.RecommendationRepository) RecommendationService {
	return &recommendationService{recs: recs}
}

func (s *recommendationService) ListByBook(ctx context.Context, bookID int64, limit, offset int) ([]domain.Recommendation, error) {
	// public listings only ever see active rows
	return s.recs.ListByBook(ctx, bookID, true, limit, offset)
}

func (s *recommendationService) ListFeatured(ctx context.Context, limit int) ([]domain.Recommendation, error) {
	return s.recs.ListFeatured(ctx, limit)
}

func (s *recommendationService) CountByBook(ctx context.Context, bookID int64) (int, error) {
	return s.recs.CountByBook(ctx, bookID)
}
