package service

import (
	"context"
	"errors"
	"strings"

	"aireading/internal/domain"
	"aireading/internal/repository"
)

// ErrInvalidRating rejects ratings outside 1..5.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// ReviewService coordinates review CRUD and like counting.
type ReviewService interface {
	Create(ctx context.Context, userID, bookID int64, content string, rating int) (*domain.Review, error)
	ListByBook(ctx context.Context, bookID int64, opts repository.ReviewListOptions) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Review, error)
	Update(ctx context.Context, id, userID int64, update domain.ReviewUpdate) (*domain.Review, error)
	Delete(ctx context.Context, id, userID int64) error
	Like(ctx context.Context, reviewID, userID int64) (bool, error)
	Unlike(ctx context.Context, reviewID, userID int64) (bool, error)
	Stats(ctx context.Context, bookID int64) (*domain.ReviewStats, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	books   repository.BookRepository
}

func NewReviewService(reviews repository.ReviewRepository, books repository.BookRepository) ReviewService {
	return &reviewService{reviews: reviews, books: books}
}

func (s *reviewService) Create(ctx context.Context, userID, bookID int64, content string, rating int) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reviewed, err := s.reviews.HasUserReviewed(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, ErrAlreadyReviewed
	}

	review := &domain.Review{
		UserID:  userID,
		BookID:  bookID,
		Content: strings.TrimSpace(content),
		Rating:  rating,
	}
	if _, err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListByBook(ctx context.Context, bookID int64, opts repository.ReviewListOptions) ([]domain.Review, error) {
	return s.reviews.ListByBook(ctx, bookID, opts)
}

func (s *reviewService) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Review, error) {
	return s.reviews.ListByUser(ctx, userID, limit, offset)
}

func (s *reviewService) Update(ctx context.Context, id, userID int64, update domain.ReviewUpdate) (*domain.Review, error) {
	if update.Rating != nil && (*update.Rating < 1 || *update.Rating > 5) {
		return nil, ErrInvalidRating
	}
	if err := s.reviews.Update(ctx, id, userID, update); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrNotFound
		}
		return nil, err
	}
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id, userID int64) error {
	deleted, err := s.reviews.SoftDelete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *reviewService) Like(ctx context.Context, reviewID, userID int64) (bool, error) {
	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		return false, ErrNotFound
	}
	return s.reviews.Like(ctx, reviewID, userID)
}

func (s *reviewService) Unlike(ctx context.Context, reviewID, userID int64) (bool, error) {
	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		return false, ErrNotFound
	}
	return s.reviews.Unlike(ctx, reviewID, userID)
}

func (s *reviewService) Stats(ctx context.Context, bookID int64) (*domain.ReviewStats, error) {
	return s.reviews.Stats(ctx, bookID)
}
