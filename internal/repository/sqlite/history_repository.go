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

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS listening_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	book_id INTEGER NOT NULL REFERENCES books(id),
	summary_type TEXT NOT NULL,
	progress_seconds INTEGER NOT NULL DEFAULT 0,
	total_seconds INTEGER NOT NULL DEFAULT 0,
	playback_speed REAL NOT NULL DEFAULT 1.0,
	is_completed INTEGER NOT NULL DEFAULT 0,
	play_count INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	last_played_at DATETIME NOT NULL,
	UNIQUE(user_id, book_id, summary_type)
);
`

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createHistoryTable); err != nil {
		return fmt.Errorf("create listening_history table: %w", err)
	}
	return nil
}

const selectHistoryColumns = `
SELECT id, user_id, book_id, summary_type, progress_seconds, total_seconds,
	playback_speed, is_completed, play_count, created_at, last_played_at
FROM listening_history`

func (r *HistoryRepository) Get(ctx context.Context, userID, bookID int64, summaryType domain.SummaryType) (*domain.History, error) {
	row := r.db.QueryRowContext(ctx, selectHistoryColumns+`
WHERE user_id = ? AND book_id = ? AND summary_type = ?`,
		userID, bookID, string(summaryType))
	return scanHistory(row)
}

func (r *HistoryRepository) Create(ctx context.Context, history *domain.History) (int64, error) {
	now := time.Now().UTC()
	history.CreatedAt = now
	history.LastPlayedAt = now
	if history.PlaybackSpeed == 0 {
		history.PlaybackSpeed = 1.0
	}
	if history.PlayCount == 0 {
		history.PlayCount = 1
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO listening_history (user_id, book_id, summary_type, progress_seconds,
	total_seconds, playback_speed, is_completed, play_count, created_at, last_played_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		history.UserID,
		history.BookID,
		string(history.SummaryType),
		history.ProgressSeconds,
		history.TotalSeconds,
		history.PlaybackSpeed,
		history.IsCompleted,
		history.PlayCount,
		history.CreatedAt,
		history.LastPlayedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert history: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history last insert id: %w", err)
	}
	history.ID = id
	return id, nil
}

func (r *HistoryRepository) UpdateProgress(ctx context.Context, id int64, progressSeconds int, playbackSpeed float64, completed bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE listening_history
SET progress_seconds = ?,
	playback_speed = ?,
	is_completed = ?,
	play_count = play_count + 1,
	last_played_at = ?
WHERE id = ?`,
		progressSeconds, playbackSpeed, completed, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update history progress: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("history not found")
	}
	return nil
}

func (r *HistoryRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.History, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, selectHistoryColumns+`
WHERE user_id = ?
ORDER BY last_played_at DESC
LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var items []domain.History
	for rows.Next() {
		item, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanHistory(row interface {
	Scan(dest ...any) error
}) (*domain.History, error) {
	var h domain.History
	var summaryType string
	if err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.BookID,
		&summaryType,
		&h.ProgressSeconds,
		&h.TotalSeconds,
		&h.PlaybackSpeed,
		&h.IsCompleted,
		&h.PlayCount,
		&h.CreatedAt,
		&h.LastPlayedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("history not found")
		}
		return nil, fmt.Errorf("scan history: %w", err)
	}
	h.SummaryType = domain.SummaryType(summaryType)
	return &h, nil
}
