package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"aireading/internal/auth"
	"aireading/internal/domain"
	"aireading/internal/repository"
	"aireading/internal/service"
)

func (h *Handler) listBooks(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	books, err := h.books.List(c.Request.Context(), c.Query("category"), limit, offset)
	if err != nil {
		h.serverError(c, err)
		return
	}

	resp := make([]BookResponse, len(books))
	for i := range books {
		resp[i] = bookToResponse(books[i])
	}
	c.JSON(http.StatusOK, gin.H{"books": resp})
}

func (h *Handler) getBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.books.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found")
			return
		}
		h.serverError(c, err)
		return
	}

	h.respondBookDetail(c, detail)
}

func (h *Handler) getBookBySlug(c *gin.Context) {
	slug := c.Param("slug")

	detail, err := h.books.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found")
			return
		}
		h.serverError(c, err)
		return
	}

	h.respondBookDetail(c, detail)
}

// respondBookDetail annotates the detail with the recommendation count
// and the viewer's favorite state.
func (h *Handler) respondBookDetail(c *gin.Context, detail *service.BookDetail) {
	recCount, err := h.recs.CountByBook(c.Request.Context(), detail.Book.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	favorited := false
	if principal, authed := auth.PrincipalFromContext(c); authed {
		favorited, err = h.library.IsFavorited(c.Request.Context(), principal.UserID, detail.Book.ID)
		if err != nil {
			h.serverError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, bookDetailToResponse(detail, recCount, favorited))
}

// getBookAudio returns a presigned playback URL for one summary
// rendition. Anonymous callers get the short rendition only.
func (h *Handler) getBookAudio(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	summaryType := domain.SummaryType(c.DefaultQuery("type", string(domain.SummaryShort)))
	if !summaryType.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_SUMMARY_TYPE", "Summary type must be one of: short, medium, long")
		return
	}

	if _, authed := auth.PrincipalFromContext(c); !authed && summaryType != domain.SummaryShort {
		respondError(c, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required")
		return
	}

	detail, err := h.books.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found")
			return
		}
		h.serverError(c, err)
		return
	}

	if h.storage == nil || h.bucket == "" {
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Audio storage not configured")
		return
	}

	url, err := h.storage.PresignGet(c.Request.Context(), h.bucket, detail.Book.AudioKey(summaryType), h.urlTTL)
	if err != nil {
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        url,
		"expires_at": time.Now().Add(h.urlTTL).Format(time.RFC3339),
	})
}

func (h *Handler) listBookReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	opts := repository.ReviewListOptions{
		Sort:   domain.ReviewSort(c.DefaultQuery("sort", string(domain.ReviewSortLatest))),
		Limit:  intQuery(c, "limit", 20),
		Offset: intQuery(c, "offset", 0),
	}
	if principal, authed := auth.PrincipalFromContext(c); authed {
		opts.ViewerID = principal.UserID
	}

	reviews, err := h.reviews.ListByBook(c.Request.Context(), id, opts)
	if err != nil {
		h.serverError(c, err)
		return
	}

	stats, err := h.reviews.Stats(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err)
		return
	}

	resp := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		resp[i] = reviewToResponse(reviews[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews": resp,
		"stats":   statsToResponse(*stats),
	})
}

type createReviewRequest struct {
	Content string `json:"content" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
}

func (h *Handler) createReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	principal, _ := auth.PrincipalFromContext(c)

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FIELDS", "Content and rating are required")
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), principal.UserID, id, req.Content, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			respondError(c, http.StatusBadRequest, "INVALID_RATING", "Rating must be between 1 and 5")
		case errors.Is(err, service.ErrNotFound):
			respondError(c, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found")
		case errors.Is(err, service.ErrAlreadyReviewed):
			respondError(c, http.StatusConflict, "ALREADY_REVIEWED", "You have already reviewed this book")
		default:
			h.serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": reviewToResponse(*review)})
}

type updateReviewRequest struct {
	Content *string `json:"content"`
	Rating  *int    `json:"rating"`
}

func (h *Handler) updateReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	principal, _ := auth.PrincipalFromContext(c)

	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	review, err := h.reviews.Update(c.Request.Context(), id, principal.UserID, domain.ReviewUpdate{
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			respondError(c, http.StatusBadRequest, "INVALID_RATING", "Rating must be between 1 and 5")
		case errors.Is(err, service.ErrNotFound):
			respondError(c, http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found or permission denied")
		default:
			h.serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": reviewToResponse(*review)})
}

func (h *Handler) deleteReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	principal, _ := auth.PrincipalFromContext(c)

	if err := h.reviews.Delete(c.Request.Context(), id, principal.UserID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found or permission denied")
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) likeReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	principal, _ := auth.PrincipalFromContext(c)

	liked, err := h.reviews.Like(c.Request.Context(), id, principal.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found")
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (h *Handler) unlikeReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	principal, _ := auth.PrincipalFromContext(c)

	unliked, err := h.reviews.Unlike(c.Request.Context(), id, principal.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found")
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unliked": unliked})
}

func (h *Handler) listUserReviews(c *gin.Context) {
	principal, _ := auth.PrincipalFromContext(c)

	reviews, err := h.reviews.ListByUser(c.Request.Context(), principal.UserID, intQuery(c, "limit", 50), intQuery(c, "offset", 0))
	if err != nil {
		h.serverError(c, err)
		return
	}

	resp := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		resp[i] = reviewToResponse(reviews[i])
	}
	c.JSON(http.StatusOK, gin.H{"reviews": resp})
}

func (h *Handler) listBookRecommendations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	recs, err := h.recs.ListByBook(c.Request.Context(), id, intQuery(c, "limit", 10), intQuery(c, "offset", 0))
	if err != nil {
		h.serverError(c, err)
		return
	}

	resp := make([]RecommendationResponse, len(recs))
	for i := range recs {
		resp[i] = recommendationToResponse(recs[i])
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": resp})
}

func (h *Handler) listFeaturedRecommendations(c *gin.Context) {
	recs, err := h.recs.ListFeatured(c.Request.Context(), intQuery(c, "limit", 20))
	if err != nil {
		h.serverError(c, err)
		return
	}

	resp := make([]RecommendationResponse, len(recs))
	for i := range recs {
		resp[i] = recommendationToResponse(recs[i])
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": resp})
}

type addFavoriteRequest struct {
	BookID int64    `json:"book_id" binding:"required"`
	Notes  string   `json:"notes"`
	Tags   []string `json:"tags"`
}

func (h *Handler) addFavorite(c *gin.Context) {
	principal, _ := auth.PrincipalFromContext(c)

	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FIELDS", "book_id is required")
		return
	}

	fav, err := h.library.AddFavorite(c.Request.Context(), principal.UserID, req.BookID, req.Notes, req.Tags)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found")
		case errors.Is(err, service.ErrAlreadyFavorited):
			respondError(c, http.StatusConflict, "ALREADY_FAVORITED", "Book already in favorites")
		default:
			h.serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"favorite": favoriteToResponse(*fav)})
}

func (h *Handler) listFavorites(c *gin.Context) {
	principal, _ := auth.PrincipalFromContext(c)

	favs, err := h.library.ListFavorites(c.Request.Context(), principal.UserID, intQuery(c, "limit", 50), intQuery(c, "offset", 0))
	if err != nil {
		h.serverError(c, err)
		return
	}

	resp := make([]FavoriteResponse, len(favs))
	for i := range favs {
		resp[i] = favoriteToResponse(favs[i])
	}
	c.JSON(http.StatusOK, gin.H{"favorites": resp})
}

func (h *Handler) removeFavorite(c *gin.Context) {
	principal, _ := auth.PrincipalFromContext(c)

	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "invalid book id")
		return
	}

	if err := h.library.RemoveFavorite(c.Request.Context(), principal.UserID, bookID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "FAVORITE_NOT_FOUND", "Favorite not found")
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": bookID})
}

type recordHistoryRequest struct {
	BookID          int64   `json:"book_id" binding:"required"`
	SummaryType     string  `json:"summary_type" binding:"required"`
	ProgressSeconds int     `json:"progress_seconds"`
	TotalSeconds    int     `json:"total_seconds"`
	PlaybackSpeed   float64 `json:"playback_speed"`
}

func (h *Handler) recordHistory(c *gin.Context) {
	principal, _ := auth.PrincipalFromContext(c)

	var req recordHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FIELDS", "book_id and summary_type are required")
		return
	}

	summaryType := domain.SummaryType(req.SummaryType)
	if !summaryType.Valid() {
		respondError(c, http.StatusBadRequest, "INVALID_SUMMARY_TYPE", "Summary type must be one of: short, medium, long")
		return
	}
	if req.ProgressSeconds < 0 || req.TotalSeconds < 0 {
		respondError(c, http.StatusBadRequest, "INVALID_PROGRESS", "Progress must not be negative")
		return
	}
	if req.PlaybackSpeed != 0 && (req.PlaybackSpeed < 0.5 || req.PlaybackSpeed > 2.0) {
		respondError(c, http.StatusBadRequest, "INVALID_SPEED", "Playback speed must be between 0.5 and 2.0")
		return
	}

	history, err := h.library.RecordProgress(c.Request.Context(), principal.UserID, req.BookID,
		summaryType, req.ProgressSeconds, req.TotalSeconds, req.PlaybackSpeed)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found")
			return
		}
		h.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": historyToResponse(*history)})
}

func (h *Handler) listHistory(c *gin.Context) {
	principal, _ := auth.PrincipalFromContext(c)

	items, err := h.library.ListHistory(c.Request.Context(), principal.UserID, intQuery(c, "limit", 50), intQuery(c, "offset", 0))
	if err != nil {
		h.serverError(c, err)
		return
	}

	resp := make([]HistoryResponse, len(items))
	for i := range items {
		resp[i] = historyToResponse(items[i])
	}
	c.JSON(http.StatusOK, gin.H{"history": resp})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+name)
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}
