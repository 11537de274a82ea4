package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"aireading/internal/domain"
	"aireading/internal/repository"
)

const createFavoritesTable = `
CREATE TABLE IF NOT EXISTS favorites (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	book_id INTEGER NOT NULL REFERENCES books(id),
	notes TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL,
	UNIQUE(user_id, book_id)
);
`

type FavoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) repository.FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createFavoritesTable); err != nil {
		return fmt.Errorf("create favorites table: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Add(ctx context.Context, fav *domain.Favorite) (int64, error) {
	fav.CreatedAt = time.Now().UTC()

	tags := fav.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return 0, fmt.Errorf("marshal tags: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO favorites (user_id, book_id, notes, tags, created_at)
VALUES (?, ?, ?, ?, ?)`,
		fav.UserID,
		fav.BookID,
		fav.Notes,
		string(tagsJSON),
		fav.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("favorite already exists: %w", err)
		}
		return 0, fmt.Errorf("insert favorite: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("favorite last insert id: %w", err)
	}
	fav.ID = id
	return id, nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Favorite, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, book_id, notes, tags, created_at
FROM favorites
WHERE user_id = ?
ORDER BY created_at DESC
LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var favs []domain.Favorite
	for rows.Next() {
		var fav domain.Favorite
		var tagsJSON string
		if err := rows.Scan(
			&fav.ID,
			&fav.UserID,
			&fav.BookID,
			&fav.Notes,
			&tagsJSON,
			&fav.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &fav.Tags); err != nil {
			fav.Tags = nil
		}
		favs = append(favs, fav)
	}
	return favs, rows.Err()
}

func (r *FavoriteRepository) IsFavorited(ctx context.Context, userID, bookID int64) (bool, error) {
	var dummy int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM favorites WHERE user_id = ? AND book_id = ?`,
		userID, bookID).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return true, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, bookID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND book_id = ?`, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete favorite rows affected: %w", err)
	}
	return n > 0, nil
}
