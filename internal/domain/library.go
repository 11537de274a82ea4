package domain

import "time"

// Favorite marks a book saved to a user's library.
type Favorite struct {
	ID        int64
	UserID    int64
	BookID    int64
	Notes     string
	Tags      []string
	CreatedAt time.Time
}

// History tracks listening progress for one (user, book, rendition) triple.
type History struct {
	ID              int64
	UserID          int64
	BookID          int64
	SummaryType     SummaryType
	ProgressSeconds int
	TotalSeconds    int
	PlaybackSpeed   float64
	IsCompleted     bool
	PlayCount       int
	CreatedAt       time.Time
	LastPlayedAt    time.Time
}

// CompletionRate returns listening progress in [0, 1].
func (h History) CompletionRate() float64 {
	if h.TotalSeconds <= 0 {
		return 0
	}
	rate := float64(h.ProgressSeconds) / float64(h.TotalSeconds)
	if rate > 1 {
		return 1
	}
	return rate
}
