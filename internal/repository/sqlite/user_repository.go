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

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	username TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	locale TEXT NOT NULL DEFAULT 'en',
	theme TEXT NOT NULL DEFAULT 'auto',
	playback_speed REAL NOT NULL DEFAULT 1.0,
	subscription_tier TEXT NOT NULL DEFAULT 'free',
	subscription_expires_at DATETIME,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	last_login_at DATETIME
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Locale == "" {
		user.Locale = "en"
	}
	if user.Theme == "" {
		user.Theme = domain.ThemeAuto
	}
	if user.PlaybackSpeed == 0 {
		user.PlaybackSpeed = 1.0
	}
	if user.SubscriptionTier == "" {
		user.SubscriptionTier = domain.TierFree
	}
	user.IsActive = true

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (email, password_hash, username, avatar_url, locale, theme, playback_speed, subscription_tier, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		user.Email,
		user.PasswordHash,
		user.Username,
		user.AvatarURL,
		user.Locale,
		user.Theme,
		user.PlaybackSpeed,
		user.SubscriptionTier,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("user already exists: %w", err)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

const selectUserColumns = `
SELECT id, email, password_hash, username, avatar_url, locale, theme, playback_speed,
	subscription_tier, subscription_expires_at, is_active, created_at, updated_at, last_login_at
FROM users`

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+` WHERE email = ?`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+` WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, id int64, update domain.UserUpdate) error {
	var sets []string
	var args []any

	if update.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *update.Username)
	}
	if update.AvatarURL != nil {
		sets = append(sets, "avatar_url = ?")
		args = append(args, *update.AvatarURL)
	}
	if update.Locale != nil {
		sets = append(sets, "locale = ?")
		args = append(args, *update.Locale)
	}
	if update.Theme != nil {
		sets = append(sets, "theme = ?")
		args = append(args, *update.Theme)
	}
	if update.PlaybackSpeed != nil {
		sets = append(sets, "playback_speed = ?")
		args = append(args, *update.PlaybackSpeed)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, at.UTC(), id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var user domain.User
	var subExpires, lastLogin sql.NullTime
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Username,
		&user.AvatarURL,
		&user.Locale,
		&user.Theme,
		&user.PlaybackSpeed,
		&user.SubscriptionTier,
		&subExpires,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLogin,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if subExpires.Valid {
		t := subExpires.Time
		user.SubscriptionExpiresAt = &t
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}
	return &user, nil
}
