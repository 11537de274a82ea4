package domain

import "time"

// Review is a user review of a book. Deleted reviews stay in the table
// with IsDeleted set so like counters and history remain consistent.
type Review struct {
	ID                 int64
	UserID             int64
	BookID             int64
	Content            string
	Rating             int
	LikesCount         int
	IsVerifiedPurchase bool
	IsPinned           bool
	IsDeleted          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Populated on list queries only.
	Username  string
	AvatarURL string
	UserLiked bool
}

// ReviewUpdate is a partial update of a review's editable fields.
type ReviewUpdate struct {
	Content *string
	Rating  *int
}

// ReviewSort orders review listings.
type ReviewSort string

const (
	ReviewSortLatest ReviewSort = "latest"
	ReviewSortLikes  ReviewSort = "likes"
	ReviewSortRating ReviewSort = "rating"
)

// ReviewStats aggregates ratings for one book.
type ReviewStats struct {
	TotalCount         int
	AverageRating      float64
	RatingDistribution [5]int
}
