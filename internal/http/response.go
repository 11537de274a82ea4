package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"aireading/internal/domain"
	"aireading/internal/service"
)

// respondError writes the {error, code} envelope every endpoint uses.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": message, "code": code})
}

type UserResponse struct {
	ID                    int64   `json:"id"`
	Email                 string  `json:"email"`
	Username              string  `json:"username"`
	AvatarURL             string  `json:"avatar_url"`
	Locale                string  `json:"locale"`
	Theme                 string  `json:"theme"`
	PlaybackSpeed         float64 `json:"playback_speed"`
	SubscriptionTier      string  `json:"subscription_tier"`
	SubscriptionExpiresAt *string `json:"subscription_expires_at,omitempty"`
	IsActive              bool    `json:"is_active"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
	LastLoginAt           *string `json:"last_login_at,omitempty"`
}

func userToResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		Username:         user.Username,
		AvatarURL:        user.AvatarURL,
		Locale:           user.Locale,
		Theme:            user.Theme,
		PlaybackSpeed:    user.PlaybackSpeed,
		SubscriptionTier: user.SubscriptionTier,
		IsActive:         user.IsActive,
		CreatedAt:        user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        user.UpdatedAt.Format(time.RFC3339),
	}
	if user.SubscriptionExpiresAt != nil {
		v := user.SubscriptionExpiresAt.Format(time.RFC3339)
		resp.SubscriptionExpiresAt = &v
	}
	if user.LastLoginAt != nil {
		v := user.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &v
	}
	return resp
}

type BookResponse struct {
	ID             int64  `json:"id"`
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	TitleZh        string `json:"title_zh"`
	Author         string `json:"author"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	DescriptionZh  string `json:"description_zh"`
	CoverURL       string `json:"cover_url"`
	DurationShort  int    `json:"duration_short"`
	DurationMedium int    `json:"duration_medium"`
	DurationLong   int    `json:"duration_long"`
	CreatedAt      string `json:"created_at"`
}

func bookToResponse(book domain.Book) BookResponse {
	return BookResponse{
		ID:             book.ID,
		Slug:           book.Slug,
		Title:          book.Title,
		TitleZh:        book.TitleZh,
		Author:         book.Author,
		Category:       book.Category,
		Description:    book.Description,
		DescriptionZh:  book.DescriptionZh,
		CoverURL:       book.CoverURL,
		DurationShort:  book.DurationShort,
		DurationMedium: book.DurationMedium,
		DurationLong:   book.DurationLong,
		CreatedAt:      book.CreatedAt.Format(time.RFC3339),
	}
}

type ReviewStatsResponse struct {
	TotalCount         int         `json:"total_count"`
	AverageRating      float64     `json:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

func statsToResponse(stats domain.ReviewStats) ReviewStatsResponse {
	dist := make(map[int]int, 5)
	for i, n := range stats.RatingDistribution {
		dist[i+1] = n
	}
	return ReviewStatsResponse{
		TotalCount:         stats.TotalCount,
		AverageRating:      stats.AverageRating,
		RatingDistribution: dist,
	}
}

type BookDetailResponse struct {
	BookResponse
	Reviews              ReviewStatsResponse `json:"reviews"`
	RecommendationsCount int                 `json:"recommendations_count"`
	IsFavorited          bool                `json:"is_favorited"`
}

func bookDetailToResponse(detail *service.BookDetail, recCount int, favorited bool) BookDetailResponse {
	return BookDetailResponse{
		BookResponse:         bookToResponse(detail.Book),
		Reviews:              statsToResponse(detail.Stats),
		RecommendationsCount: recCount,
		IsFavorited:          favorited,
	}
}

type ReviewResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	BookID     int64  `json:"book_id"`
	Content    string `json:"content"`
	Rating     int    `json:"rating"`
	LikesCount int    `json:"likes_count"`
	IsPinned   bool   `json:"is_pinned"`
	Username   string `json:"username,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	UserLiked  bool   `json:"user_liked"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func reviewToResponse(review domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID,
		UserID:     review.UserID,
		BookID:     review.BookID,
		Content:    review.Content,
		Rating:     review.Rating,
		LikesCount: review.LikesCount,
		IsPinned:   review.IsPinned,
		Username:   review.Username,
		AvatarURL:  review.AvatarURL,
		UserLiked:  review.UserLiked,
		CreatedAt:  review.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  review.UpdatedAt.Format(time.RFC3339),
	}
}

type RecommendationResponse struct {
	ID                 int64  `json:"id"`
	BookID             int64  `json:"book_id"`
	CelebrityName      string `json:"celebrity_name"`
	CelebrityTitle     string `json:"celebrity_title,omitempty"`
	CelebrityAvatarURL string `json:"celebrity_avatar_url,omitempty"`
	Text               string `json:"recommendation_text"`
	Source             string `json:"recommendation_source,omitempty"`
	SourceURL          string `json:"source_url,omitempty"`
	DisplayOrder       int    `json:"display_order"`
	IsFeatured         bool   `json:"is_featured"`
}

func recommendationToResponse(rec domain.Recommendation) RecommendationResponse {
	return RecommendationResponse{
		ID:                 rec.ID,
		BookID:             rec.BookID,
		CelebrityName:      rec.CelebrityName,
		CelebrityTitle:     rec.CelebrityTitle,
		CelebrityAvatarURL: rec.CelebrityAvatarURL,
		Text:               rec.Text,
		Source:             rec.Source,
		SourceURL:          rec.SourceURL,
		DisplayOrder:       rec.DisplayOrder,
		IsFeatured:         rec.IsFeatured,
	}
}

type FavoriteResponse struct {
	ID        int64    `json:"id"`
	BookID    int64    `json:"book_id"`
	Notes     string   `json:"notes,omitempty"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
}

func favoriteToResponse(fav domain.Favorite) FavoriteResponse {
	tags := fav.Tags
	if tags == nil {
		tags = []string{}
	}
	return FavoriteResponse{
		ID:        fav.ID,
		BookID:    fav.BookID,
		Notes:     fav.Notes,
		Tags:      tags,
		CreatedAt: fav.CreatedAt.Format(time.RFC3339),
	}
}

type HistoryResponse struct {
	ID              int64   `json:"id"`
	BookID          int64   `json:"book_id"`
	SummaryType     string  `json:"summary_type"`
	ProgressSeconds int     `json:"progress_seconds"`
	TotalSeconds    int     `json:"total_seconds"`
	PlaybackSpeed   float64 `json:"playback_speed"`
	IsCompleted     bool    `json:"is_completed"`
	CompletionRate  float64 `json:"completion_rate"`
	PlayCount       int     `json:"play_count"`
	LastPlayedAt    string  `json:"last_played_at"`
}

func historyToResponse(h domain.History) HistoryResponse {
	return HistoryResponse{
		ID:              h.ID,
		BookID:          h.BookID,
		SummaryType:     string(h.SummaryType),
		ProgressSeconds: h.ProgressSeconds,
		TotalSeconds:    h.TotalSeconds,
		PlaybackSpeed:   h.PlaybackSpeed,
		IsCompleted:     h.IsCompleted,
		CompletionRate:  h.CompletionRate(),
		PlayCount:       h.PlayCount,
		LastPlayedAt:    h.LastPlayedAt.Format(time.RFC3339),
	}
}
