package service

import (
	"context"
	"strings"

	"aireading/internal/domain"
	"aireading/internal/repository"
)

// completionThreshold marks a listen as finished near the end of the
// audio, since players rarely report the exact final second.
const completionThreshold = 0.95

// LibraryService covers the per-user shelf: favorites and listening history.
type LibraryService interface {
	AddFavorite(ctx context.Context, userID, bookID int64, notes string, tags []string) (*domain.Favorite, error)
	ListFavorites(ctx context.Context, userID int64, limit, offset int) ([]domain.Favorite, error)
	IsFavorited(ctx context.Context, userID, bookID int64) (bool, error)
	RemoveFavorite(ctx context.Context, userID, bookID int64) error

	RecordProgress(ctx context.Context, userID, bookID int64, summaryType domain.SummaryType, progressSeconds, totalSeconds int, playbackSpeed float64) (*domain.History, error)
	ListHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.History, error)
}

type libraryService struct {
	favorites repository.FavoriteRepository
	history   repository.HistoryRepository
	books     repository.BookRepository
}

func NewLibraryService(favorites repository.FavoriteRepository, history repository.HistoryRepository, books repository.BookRepository) LibraryService {
	return &libraryService{
		favorites: favorites,
		history:   history,
		books:     books,
	}
}

func (s *libraryService) AddFavorite(ctx context.Context, userID, bookID int64, notes string, tags []string) (*domain.Favorite, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fav := &domain.Favorite{
		UserID: userID,
		BookID: bookID,
		Notes:  notes,
		Tags:   tags,
	}
	if _, err := s.favorites.Add(ctx, fav); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}
	return fav, nil
}

func (s *libraryService) ListFavorites(ctx context.Context, userID int64, limit, offset int) ([]domain.Favorite, error) {
	return s.favorites.ListByUser(ctx, userID, limit, offset)
}

func (s *libraryService) IsFavorited(ctx context.Context, userID, bookID int64) (bool, error) {
	return s.favorites.IsFavorited(ctx, userID, bookID)
}

func (s *libraryService) RemoveFavorite(ctx context.Context, userID, bookID int64) error {
	removed, err := s.favorites.Remove(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// RecordProgress upserts the (user, book, rendition) history row and
// returns its current state.
func (s *libraryService) RecordProgress(ctx context.Context, userID, bookID int64, summaryType domain.SummaryType, progressSeconds, totalSeconds int, playbackSpeed float64) (*domain.History, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if playbackSpeed == 0 {
		playbackSpeed = 1.0
	}

	existing, err := s.history.Get(ctx, userID, bookID, summaryType)
	if err != nil {
		if !strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, err
		}
		created := &domain.History{
			UserID:          userID,
			BookID:          bookID,
			SummaryType:     summaryType,
			ProgressSeconds: progressSeconds,
			TotalSeconds:    totalSeconds,
			PlaybackSpeed:   playbackSpeed,
			IsCompleted:     isCompleted(progressSeconds, totalSeconds),
		}
		if _, err := s.history.Create(ctx, created); err != nil {
			return nil, err
		}
		return created, nil
	}

	total := existing.TotalSeconds
	if totalSeconds > 0 {
		total = totalSeconds
	}
	completed := existing.IsCompleted || isCompleted(progressSeconds, total)
	if err := s.history.UpdateProgress(ctx, existing.ID, progressSeconds, playbackSpeed, completed); err != nil {
		return nil, err
	}
	return s.history.Get(ctx, userID, bookID, summaryType)
}

func (s *libraryService) ListHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.History, error) {
	return s.history.ListByUser(ctx, userID, limit, offset)
}

func isCompleted(progress, total int) bool {
	if total <= 0 {
		return false
	}
	return float64(progress) >= float64(total)*completionThreshold
}
