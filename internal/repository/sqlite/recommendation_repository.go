package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aireading/internal/domain"
	"aireading/internal/repository"
)

const createRecommendationsTable = `
CREATE TABLE IF NOT EXISTS celebrity_recommendations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	book_id INTEGER NOT NULL REFERENCES books(id),
	celebrity_name TEXT NOT NULL,
	celebrity_title TEXT NOT NULL DEFAULT '',
	celebrity_avatar_url TEXT NOT NULL DEFAULT '',
	recommendation_text TEXT NOT NULL,
	recommendation_source TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	display_order INTEGER NOT NULL DEFAULT 0,
	is_featured INTEGER NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recommendations_book ON celebrity_recommendations(book_id, is_active);
`

type RecommendationRepository struct {
	db *sql.DB
}

func NewRecommendationRepository(db *sql.DB) repository.RecommendationRepository {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRecommendationsTable); err != nil {
		return fmt.Errorf("create recommendations table: %w", err)
	}
	return nil
}

func (r *RecommendationRepository) Create(ctx context.Context, rec *domain.Recommendation) (int64, error) {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO celebrity_recommendations (book_id, celebrity_name, celebrity_title,
	celebrity_avatar_url, recommendation_text, recommendation_source, source_url,
	display_order, is_featured, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.BookID,
		rec.CelebrityName,
		rec.CelebrityTitle,
		rec.CelebrityAvatarURL,
		rec.Text,
		rec.Source,
		rec.SourceURL,
		rec.DisplayOrder,
		rec.IsFeatured,
		rec.IsActive,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert recommendation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recommendation last insert id: %w", err)
	}
	rec.ID = id
	return id, nil
}

const selectRecommendationColumns = `
SELECT id, book_id, celebrity_name, celebrity_title, celebrity_avatar_url,
	recommendation_text, recommendation_source, source_url,
	display_order, is_featured, is_active, created_at, updated_at
FROM celebrity_recommendations`

func (r *RecommendationRepository) ListByBook(ctx context.Context, bookID int64, onlyActive bool, limit, offset int) ([]domain.Recommendation, error) {
	if limit <= 0 {
		limit = 10
	}
	query := selectRecommendationColumns + ` WHERE book_id = ?`
	if onlyActive {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY display_order ASC, created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, bookID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()
	return collectRecommendations(rows)
}

func (r *RecommendationRepository) CountByBook(ctx context.Context, bookID int64) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM celebrity_recommendations
WHERE book_id = ? AND is_active = 1`, bookID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count recommendations: %w", err)
	}
	return count, nil
}

func (r *RecommendationRepository) ListFeatured(ctx context.Context, limit int) ([]domain.Recommendation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, selectRecommendationColumns+`
WHERE is_featured = 1 AND is_active = 1
ORDER BY display_order ASC, created_at DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured recommendations: %w", err)
	}
	defer rows.Close()
	return collectRecommendations(rows)
}

func collectRecommendations(rows *sql.Rows) ([]domain.Recommendation, error) {
	var recs []domain.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

func scanRecommendation(row interface {
	Scan(dest ...any) error
}) (*domain.Recommendation, error) {
	var rec domain.Recommendation
	if err := row.Scan(
		&rec.ID,
		&rec.BookID,
		&rec.CelebrityName,
		&rec.CelebrityTitle,
		&rec.CelebrityAvatarURL,
		&rec.Text,
		&rec.Source,
		&rec.SourceURL,
		&rec.DisplayOrder,
		&rec.IsFeatured,
		&rec.IsActive,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recommendation not found")
		}
		return nil, fmt.Errorf("scan recommendation: %w", err)
	}
	return &rec, nil
}
