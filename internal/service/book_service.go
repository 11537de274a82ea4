package service

import (
	"context"
	"strings"

	"aireading/internal/domain"
	"aireading/internal/repository"
)

// BookDetail is a catalog entry with its aggregate review stats.
type BookDetail struct {
	Book  domain.Book
	Stats domain.ReviewStats
}

// BookService exposes the published catalog.
type BookService interface {
	List(ctx context.Context, category string, limit, offset int) ([]domain.Book, error)
	Get(ctx context.Context, id int64) (*BookDetail, error)
	GetBySlug(ctx context.Context, slug string) (*BookDetail, error)
}

type bookService struct {
	books   repository.BookRepository
	reviews repository.ReviewRepository
}

func NewBookService(books repository.BookRepository, reviews repository.ReviewRepository) BookService {
	return &bookService{books: books, reviews: reviews}
}

func (s *bookService) List(ctx context.Context, category string, limit, offset int) ([]domain.Book, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.books.List(ctx, category, limit, offset)
}

func (s *bookService) Get(ctx context.Context, id int64) (*BookDetail, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.withStats(ctx, book)
}

func (s *bookService) GetBySlug(ctx context.Context, slug string) (*BookDetail, error) {
	book, err := s.books.GetBySlug(ctx, slug)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.withStats(ctx, book)
}

func (s *bookService) withStats(ctx context.Context, book *domain.Book) (*BookDetail, error) {
	stats, err := s.reviews.Stats(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	return &BookDetail{Book: *book, Stats: *stats}, nil
}
