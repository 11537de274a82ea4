package repository

import (
	"context"

	"aireading/internal/domain"
)

// ReviewListOptions shapes review listings for one book.
type ReviewListOptions struct {
	Sort   domain.ReviewSort
	Limit  int
	Offset int
	// ViewerID, when >0, populates UserLiked on each row.
	ViewerID int64
}

// ReviewRepository defines persistence operations for reviews and likes.
type ReviewRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, review *domain.Review) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ListByBook(ctx context.Context, bookID int64, opts ReviewListOptions) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Review, error)
	Update(ctx context.Context, id, userID int64, update domain.ReviewUpdate) error
	SoftDelete(ctx context.Context, id, userID int64) (bool, error)
	HasUserReviewed(ctx context.Context, userID, bookID int64) (bool, error)
	Stats(ctx context.Context, bookID int64) (*domain.ReviewStats, error)

	// Like inserts a like row and bumps the counter in one transaction;
	// it returns false when the user already liked the review.
	Like(ctx context.Context, reviewID, userID int64) (bool, error)
	// Unlike removes the like row and decrements the counter; it returns
	// false when there was nothing to remove.
	Unlike(ctx context.Context, reviewID, userID int64) (bool, error)
}
