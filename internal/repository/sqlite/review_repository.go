package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"aireading/internal/domain"
	"aireading/internal/repository"
)

const createReviewsTables = `
CREATE TABLE IF NOT EXISTS reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	book_id INTEGER NOT NULL REFERENCES books(id),
	content TEXT NOT NULL,
	rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	likes_count INTEGER NOT NULL DEFAULT 0,
	is_verified_purchase INTEGER NOT NULL DEFAULT 0,
	is_pinned INTEGER NOT NULL DEFAULT 0,
	is_deleted INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reviews_book ON reviews(book_id, is_deleted);

CREATE TABLE IF NOT EXISTS review_likes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	review_id INTEGER NOT NULL REFERENCES reviews(id),
	user_id INTEGER NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL,
	UNIQUE(review_id, user_id)
);
`

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createReviewsTables); err != nil {
		return fmt.Errorf("create reviews tables: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (int64, error) {
	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO reviews (user_id, book_id, content, rating, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		review.UserID,
		review.BookID,
		review.Content,
		review.Rating,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert review: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("review last insert id: %w", err)
	}
	review.ID = id
	return id, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, book_id, content, rating, likes_count, is_verified_purchase,
	is_pinned, is_deleted, created_at, updated_at
FROM reviews
WHERE id = ? AND is_deleted = 0`, id)

	var review domain.Review
	if err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.BookID,
		&review.Content,
		&review.Rating,
		&review.LikesCount,
		&review.IsVerifiedPurchase,
		&review.IsPinned,
		&review.IsDeleted,
		&review.CreatedAt,
		&review.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("review not found")
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return &review, nil
}

func (r *ReviewRepository) ListByBook(ctx context.Context, bookID int64, opts repository.ReviewListOptions) ([]domain.Review, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	orderBy := "r.created_at DESC"
	switch opts.Sort {
	case domain.ReviewSortLikes:
		orderBy = "r.likes_count DESC, r.created_at DESC"
	case domain.ReviewSortRating:
		orderBy = "r.rating DESC, r.created_at DESC"
	}

	likedExpr := "0"
	args := []any{}
	if opts.ViewerID > 0 {
		likedExpr = "EXISTS(SELECT 1 FROM review_likes WHERE review_id = r.id AND user_id = ?)"
		args = append(args, opts.ViewerID)
	}

	query := fmt.Sprintf(`
SELECT r.id, r.user_id, r.book_id, r.content, r.rating, r.likes_count,
	r.is_verified_purchase, r.is_pinned, r.is_deleted, r.created_at, r.updated_at,
	COALESCE(u.username, ''), COALESCE(u.avatar_url, ''), %s
FROM reviews r
LEFT JOIN users u ON r.user_id = u.id
WHERE r.book_id = ? AND r.is_deleted = 0
ORDER BY r.is_pinned DESC, %s
LIMIT ? OFFSET ?`, likedExpr, orderBy)
	args = append(args, bookID, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.BookID,
			&review.Content,
			&review.Rating,
			&review.LikesCount,
			&review.IsVerifiedPurchase,
			&review.IsPinned,
			&review.IsDeleted,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.Username,
			&review.AvatarURL,
			&review.UserLiked,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, book_id, content, rating, likes_count, is_verified_purchase,
	is_pinned, is_deleted, created_at, updated_at
FROM reviews
WHERE user_id = ? AND is_deleted = 0
ORDER BY created_at DESC
LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.BookID,
			&review.Content,
			&review.Rating,
			&review.LikesCount,
			&review.IsVerifiedPurchase,
			&review.IsPinned,
			&review.IsDeleted,
			&review.CreatedAt,
			&review.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) Update(ctx context.Context, id, userID int64, update domain.ReviewUpdate) error {
	var sets []string
	var args []any

	if update.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *update.Content)
	}
	if update.Rating != nil {
		sets = append(sets, "rating = ?")
		args = append(args, *update.Rating)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id, userID)

	res, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET "+strings.Join(sets, ", ")+
			" WHERE id = ? AND user_id = ? AND is_deleted = 0", args...)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("review not found")
	}
	return nil
}

func (r *ReviewRepository) SoftDelete(ctx context.Context, id, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE reviews SET is_deleted = 1, updated_at = ?
WHERE id = ? AND user_id = ? AND is_deleted = 0`,
		time.Now().UTC(), id, userID)
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete review rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *ReviewRepository) HasUserReviewed(ctx context.Context, userID, bookID int64) (bool, error) {
	var dummy int
	err := r.db.QueryRowContext(ctx, `
SELECT 1 FROM reviews WHERE user_id = ? AND book_id = ? AND is_deleted = 0`,
		userID, bookID).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check reviewed: %w", err)
	}
	return true, nil
}

func (r *ReviewRepository) Stats(ctx context.Context, bookID int64) (*domain.ReviewStats, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT COUNT(*),
	COALESCE(AVG(rating), 0),
	SUM(CASE WHEN rating = 1 THEN 1 ELSE 0 END),
	SUM(CASE WHEN rating = 2 THEN 1 ELSE 0 END),
	SUM(CASE WHEN rating = 3 THEN 1 ELSE 0 END),
	SUM(CASE WHEN rating = 4 THEN 1 ELSE 0 END),
	SUM(CASE WHEN rating = 5 THEN 1 ELSE 0 END)
FROM reviews
WHERE book_id = ? AND is_deleted = 0`, bookID)

	var stats domain.ReviewStats
	var dist [5]sql.NullInt64
	if err := row.Scan(
		&stats.TotalCount,
		&stats.AverageRating,
		&dist[0], &dist[1], &dist[2], &dist[3], &dist[4],
	); err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	for i := range dist {
		if dist[i].Valid {
			stats.RatingDistribution[i] = int(dist[i].Int64)
		}
	}
	return &stats, nil
}

func (r *ReviewRepository) Like(ctx context.Context, reviewID, userID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	if _, err := tx.ExecContext(ctx, `
INSERT INTO review_likes (review_id, user_id, created_at)
VALUES (?, ?, ?)`,
		reviewID, userID, time.Now().UTC()); err != nil {
		// duplicate like: leave the counter alone
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return false, nil
		}
		return false, fmt.Errorf("insert like: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE reviews SET likes_count = likes_count + 1 WHERE id = ?`, reviewID); err != nil {
		return false, fmt.Errorf("increment likes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return true, nil
}

func (r *ReviewRepository) Unlike(ctx context.Context, reviewID, userID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
DELETE FROM review_likes WHERE review_id = ? AND user_id = ?`, reviewID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete like rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE reviews SET likes_count = likes_count - 1
WHERE id = ? AND likes_count > 0`, reviewID); err != nil {
		return false, fmt.Errorf("decrement likes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return true, nil
}
