package domain

import "time"

// SummaryType identifies which audio rendition of a book summary to play.
type SummaryType string

const (
	SummaryShort  SummaryType = "short"
	SummaryMedium SummaryType = "medium"
	SummaryLong   SummaryType = "long"
)

// Valid reports whether t is one of the known renditions.
func (t SummaryType) Valid() bool {
	switch t {
	case SummaryShort, SummaryMedium, SummaryLong:
		return true
	}
	return false
}

// Book is a catalog entry. Title and description carry both locales;
// the summary audio itself lives in object storage under AudioKeyPrefix.
type Book struct {
	ID             int64
	Slug           string
	Title          string
	TitleZh        string
	Author         string
	Category       string
	Description    string
	DescriptionZh  string
	CoverURL       string
	AudioKeyPrefix string
	DurationShort  int
	DurationMedium int
	DurationLong   int
	IsPublished    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AudioKey returns the object-storage key for one summary rendition.
func (b Book) AudioKey(t SummaryType) string {
	return b.AudioKeyPrefix + "/" + string(t) + ".mp3"
}
