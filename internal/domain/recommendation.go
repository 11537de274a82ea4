package domain

import "time"

// Recommendation is an editorial celebrity endorsement attached to a book.
type Recommendation struct {
	ID                 int64
	BookID             int64
	CelebrityName      string
	CelebrityTitle     string
	CelebrityAvatarURL string
	Text               string
	Source             string
	SourceURL          string
	DisplayOrder       int
	IsFeatured         bool
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
