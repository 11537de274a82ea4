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

const createBooksTable = `
CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	slug TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	title_zh TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	description_zh TEXT NOT NULL DEFAULT '',
	cover_url TEXT NOT NULL DEFAULT '',
	audio_key_prefix TEXT NOT NULL DEFAULT '',
	duration_short INTEGER NOT NULL DEFAULT 0,
	duration_medium INTEGER NOT NULL DEFAULT 0,
	duration_long INTEGER NOT NULL DEFAULT 0,
	is_published INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBooksTable); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (int64, error) {
	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO books (slug, title, title_zh, author, category, description, description_zh,
	cover_url, audio_key_prefix, duration_short, duration_medium, duration_long,
	is_published, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.Slug,
		book.Title,
		book.TitleZh,
		book.Author,
		book.Category,
		book.Description,
		book.DescriptionZh,
		book.CoverURL,
		book.AudioKeyPrefix,
		book.DurationShort,
		book.DurationMedium,
		book.DurationLong,
		book.IsPublished,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("book already exists: %w", err)
		}
		return 0, fmt.Errorf("insert book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("book last insert id: %w", err)
	}
	book.ID = id
	return id, nil
}

const selectBookColumns = `
SELECT id, slug, title, title_zh, author, category, description, description_zh,
	cover_url, audio_key_prefix, duration_short, duration_medium, duration_long,
	is_published, created_at, updated_at
FROM books`

func (r *BookRepository) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	row := r.db.QueryRowContext(ctx, selectBookColumns+` WHERE id = ?`, id)
	return scanBook(row)
}

func (r *BookRepository) GetBySlug(ctx context.Context, slug string) (*domain.Book, error) {
	row := r.db.QueryRowContext(ctx, selectBookColumns+` WHERE slug = ?`, slug)
	return scanBook(row)
}

func (r *BookRepository) List(ctx context.Context, category string, limit, offset int) ([]domain.Book, error) {
	query := selectBookColumns + ` WHERE is_published = 1`
	args := []any{}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY title ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return books, rows.Err()
}

func scanBook(row interface {
	Scan(dest ...any) error
}) (*domain.Book, error) {
	var book domain.Book
	if err := row.Scan(
		&book.ID,
		&book.Slug,
		&book.Title,
		&book.TitleZh,
		&book.Author,
		&book.Category,
		&book.Description,
		&book.DescriptionZh,
		&book.CoverURL,
		&book.AudioKeyPrefix,
		&book.DurationShort,
		&book.DurationMedium,
		&book.DurationLong,
		&book.IsPublished,
		&book.CreatedAt,
		&book.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("book not found")
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}
	return &book, nil
}
