package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aireading/internal/auth"
	"aireading/internal/domain"
	"aireading/internal/repository"
	"aireading/internal/repository/sqlite"
	"aireading/internal/service"
)

type testServer struct {
	router *gin.Engine
	codec  *auth.Codec
	books  repository.BookRepository
	recs   repository.RecommendationRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userRepo := sqlite.NewUserRepository(db)
	bookRepo := sqlite.NewBookRepository(db)
	reviewRepo := sqlite.NewReviewRepository(db)
	recRepo := sqlite.NewRecommendationRepository(db)
	favRepo := sqlite.NewFavoriteRepository(db)
	histRepo := sqlite.NewHistoryRepository(db)

	ctx := context.Background()
	for _, repo := range []interface {
		Init(context.Context) error
	}{userRepo, bookRepo, reviewRepo, recRepo, favRepo, histRepo} {
		require.NoError(t, repo.Init(ctx))
	}

	codec := auth.NewCodec("test-secret", auth.DefaultTokenTTL)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewHandler(Config{
		Users:          service.NewUserService(userRepo, auth.NewHasher()),
		Books:          service.NewBookService(bookRepo, reviewRepo),
		Reviews:        service.NewReviewService(reviewRepo, bookRepo),
		Recommendation: service.NewRecommendationService(recRepo),
		Library:        service.NewLibraryService(favRepo, histRepo, bookRepo),
		Codec:          codec,
		Logger:         logger,
	})

	router := gin.New()
	handler.RegisterRoutes(router)

	return &testServer{router: router, codec: codec, books: bookRepo, recs: recRepo}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func (s *testServer) registerUser(t *testing.T, email string) string {
	t.Helper()
	rec, payload := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "Abcdef12",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *testServer) seedBook(t *testing.T, slug string) int64 {
	t.Helper()
	id, err := s.books.Create(context.Background(), &domain.Book{
		Slug:           slug,
		Title:          "Deep Work",
		TitleZh:        "深度工作",
		Author:         "Cal Newport",
		Category:       "productivity",
		AudioKeyPrefix: "audio/" + slug,
		DurationShort:  300,
		DurationMedium: 900,
		DurationLong:   1800,
		IsPublished:    true,
	})
	require.NoError(t, err)
	return id
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, payload := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", payload["status"])
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	// register returns a verifiable token and a sanitized user
	rec, payload := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "a@b.com",
		"password": "Abcdef12",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	claims, err := s.codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)

	user, ok := payload["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", user["email"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "PasswordHash")

	// duplicate email
	rec, payload = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "a@b.com",
		"password": "Abcdef12",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_EXISTS", payload["code"])

	// weak password
	rec, payload = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "weak@b.com",
		"password": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "WEAK_PASSWORD", payload["code"])

	// wrong password on login
	rec, payload = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "a@b.com",
		"password": "WrongPass1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", payload["code"])

	// correct login
	rec, payload = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "a@b.com",
		"password": "Abcdef12",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	loginToken, _ := payload["token"].(string)
	require.NotEmpty(t, loginToken)

	// profile requires a token
	rec, payload = s.do(t, http.MethodGet, "/api/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_REQUIRED", payload["code"])

	rec, payload = s.do(t, http.MethodGet, "/api/user/profile", loginToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user, ok = payload["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", user["email"])

	// me reports the missing token distinctly
	rec, payload = s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "MISSING_TOKEN", payload["code"])

	rec, payload = s.do(t, http.MethodGet, "/api/auth/me", loginToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// logout clears the cookie
	rec, _ = s.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestProfileUpdateValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.registerUser(t, "prefs@b.com")

	rec, payload := s.do(t, http.MethodPut, "/api/user/profile", token, gin.H{
		"playback_speed": 3.0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_SPEED", payload["code"])

	rec, payload = s.do(t, http.MethodPut, "/api/user/profile", token, gin.H{
		"theme": "neon",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_THEME", payload["code"])

	rec, payload = s.do(t, http.MethodPut, "/api/user/profile", token, gin.H{
		"theme":          "dark",
		"playback_speed": 1.5,
		"locale":         "zh",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	user, ok := payload["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "dark", user["theme"])
	assert.Equal(t, 1.5, user["playback_speed"])
	assert.Equal(t, "zh", user["locale"])
}

func TestReviewFlow(t *testing.T) {
	s := newTestServer(t)
	bookID := s.seedBook(t, "deep-work")
	token := s.registerUser(t, "reviewer@b.com")
	otherToken := s.registerUser(t, "other@b.com")

	path := "/api/books/" + itoa(bookID) + "/reviews"

	// anonymous cannot post
	rec, payload := s.do(t, http.MethodPost, path, "", gin.H{"content": "great", "rating": 5})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_REQUIRED", payload["code"])

	rec, payload = s.do(t, http.MethodPost, path, token, gin.H{"content": "great", "rating": 5})
	require.Equal(t, http.StatusCreated, rec.Code)
	review, ok := payload["review"].(map[string]any)
	require.True(t, ok)
	reviewID := int64(review["id"].(float64))
	assert.Equal(t, "great", review["content"])

	// one review per user per book
	rec, payload = s.do(t, http.MethodPost, path, token, gin.H{"content": "again", "rating": 4})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_REVIEWED", payload["code"])

	// out-of-range rating
	rec, payload = s.do(t, http.MethodPost, path, otherToken, gin.H{"content": "bad", "rating": 6})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_RATING", payload["code"])

	// liking is idempotent: the second call reports no change
	likePath := "/api/reviews/" + itoa(reviewID) + "/like"
	rec, payload = s.do(t, http.MethodPost, likePath, otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["liked"])

	rec, payload = s.do(t, http.MethodPost, likePath, otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, payload["liked"])

	// the viewer sees their own like flag and the running count
	rec, payload = s.do(t, http.MethodGet, path, otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reviews, ok := payload["reviews"].([]any)
	require.True(t, ok)
	require.Len(t, reviews, 1)
	listed := reviews[0].(map[string]any)
	assert.Equal(t, float64(1), listed["likes_count"])
	assert.Equal(t, true, listed["user_liked"])

	stats, ok := payload["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), stats["total_count"])
	assert.Equal(t, float64(5), stats["average_rating"])

	// unlike twice: second call reports no change
	rec, payload = s.do(t, http.MethodDelete, likePath, otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["unliked"])

	rec, payload = s.do(t, http.MethodDelete, likePath, otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, payload["unliked"])

	// only the author can update or delete
	updatePath := "/api/reviews/" + itoa(reviewID)
	rec, payload = s.do(t, http.MethodPut, updatePath, otherToken, gin.H{"content": "hijack"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "REVIEW_NOT_FOUND", payload["code"])

	rec, payload = s.do(t, http.MethodPut, updatePath, token, gin.H{"content": "revised", "rating": 4})
	require.Equal(t, http.StatusOK, rec.Code)
	review = payload["review"].(map[string]any)
	assert.Equal(t, "revised", review["content"])
	assert.Equal(t, float64(4), review["rating"])

	// the author sees their review on the account page
	rec, payload = s.do(t, http.MethodGet, "/api/user/reviews", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := payload["reviews"].([]any)
	require.Len(t, mine, 1)

	rec, _ = s.do(t, http.MethodDelete, updatePath, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, payload = s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats = payload["stats"].(map[string]any)
	assert.Equal(t, float64(0), stats["total_count"])
}

func TestFavoriteFlow(t *testing.T) {
	s := newTestServer(t)
	bookID := s.seedBook(t, "atomic-habits")
	token := s.registerUser(t, "fav@b.com")

	rec, payload := s.do(t, http.MethodPost, "/api/user/favorites", token, gin.H{
		"book_id": bookID,
		"tags":    []string{"to-listen"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	fav, ok := payload["favorite"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(bookID), fav["book_id"])

	rec, payload = s.do(t, http.MethodPost, "/api/user/favorites", token, gin.H{"book_id": bookID})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_FAVORITED", payload["code"])

	rec, payload = s.do(t, http.MethodPost, "/api/user/favorites", token, gin.H{"book_id": 9999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "BOOK_NOT_FOUND", payload["code"])

	rec, payload = s.do(t, http.MethodGet, "/api/user/favorites", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	favs := payload["favorites"].([]any)
	require.Len(t, favs, 1)

	// the book page reflects the viewer's favorite state
	rec, payload = s.do(t, http.MethodGet, "/api/books/"+itoa(bookID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["is_favorited"])

	rec, payload = s.do(t, http.MethodGet, "/api/books/"+itoa(bookID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, payload["is_favorited"])

	rec, _ = s.do(t, http.MethodDelete, "/api/user/favorites/"+itoa(bookID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, payload = s.do(t, http.MethodDelete, "/api/user/favorites/"+itoa(bookID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "FAVORITE_NOT_FOUND", payload["code"])
}

func TestHistoryUpsert(t *testing.T) {
	s := newTestServer(t)
	bookID := s.seedBook(t, "thinking-fast-and-slow")
	token := s.registerUser(t, "listener@b.com")

	rec, payload := s.do(t, http.MethodPost, "/api/user/history", token, gin.H{
		"book_id":          bookID,
		"summary_type":     "medium",
		"progress_seconds": 100,
		"total_seconds":    900,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	entry := payload["history"].(map[string]any)
	assert.Equal(t, false, entry["is_completed"])

	// crossing the completion threshold marks the entry completed
	rec, payload = s.do(t, http.MethodPost, "/api/user/history", token, gin.H{
		"book_id":          bookID,
		"summary_type":     "medium",
		"progress_seconds": 880,
		"total_seconds":    900,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	entry = payload["history"].(map[string]any)
	assert.Equal(t, true, entry["is_completed"])

	// same rendition updates in place rather than appending
	rec, payload = s.do(t, http.MethodGet, "/api/user/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := payload["history"].([]any)
	assert.Len(t, items, 1)

	rec, payload = s.do(t, http.MethodPost, "/api/user/history", token, gin.H{
		"book_id":      bookID,
		"summary_type": "extended",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_SUMMARY_TYPE", payload["code"])
}

func TestBookAudioAccess(t *testing.T) {
	s := newTestServer(t)
	bookID := s.seedBook(t, "sapiens")
	token := s.registerUser(t, "audio@b.com")
	path := "/api/books/" + itoa(bookID) + "/audio"

	// anonymous callers may only request the short rendition
	rec, payload := s.do(t, http.MethodGet, path+"?type=long", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_REQUIRED", payload["code"])

	// storage is not configured in tests, so the request surfaces that
	rec, payload = s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "STORAGE_UNAVAILABLE", payload["code"])

	rec, payload = s.do(t, http.MethodGet, path+"?type=long", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "STORAGE_UNAVAILABLE", payload["code"])

	rec, payload = s.do(t, http.MethodGet, path+"?type=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_SUMMARY_TYPE", payload["code"])
}

func TestRecommendations(t *testing.T) {
	s := newTestServer(t)
	bookID := s.seedBook(t, "zero-to-one")

	seed := func(name string, featured, active bool, order int) {
		t.Helper()
		_, err := s.recs.Create(context.Background(), &domain.Recommendation{
			BookID:        bookID,
			CelebrityName: name,
			Text:          name + " recommends this",
			DisplayOrder:  order,
			IsFeatured:    featured,
			IsActive:      active,
		})
		require.NoError(t, err)
	}
	seed("Elon", true, true, 2)
	seed("Naval", false, true, 1)
	seed("Ghost", true, false, 0)

	// inactive rows never show, active rows come in display order
	rec, payload := s.do(t, http.MethodGet, "/api/books/"+itoa(bookID)+"/recommendations", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	recs := payload["recommendations"].([]any)
	require.Len(t, recs, 2)
	first := recs[0].(map[string]any)
	assert.Equal(t, "Naval", first["celebrity_name"])

	rec, payload = s.do(t, http.MethodGet, "/api/recommendations/featured", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	featured := payload["recommendations"].([]any)
	require.Len(t, featured, 1)
	assert.Equal(t, "Elon", featured[0].(map[string]any)["celebrity_name"])

	// the book page counts only active recommendations
	rec, payload = s.do(t, http.MethodGet, "/api/books/"+itoa(bookID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), payload["recommendations_count"])
}

func TestBookCatalog(t *testing.T) {
	s := newTestServer(t)
	bookID := s.seedBook(t, "deep-work")

	rec, payload := s.do(t, http.MethodGet, "/api/books", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	books := payload["books"].([]any)
	require.Len(t, books, 1)

	rec, payload = s.do(t, http.MethodGet, "/api/books/"+itoa(bookID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deep Work", payload["title"])
	assert.Equal(t, "深度工作", payload["title_zh"])
	stats := payload["reviews"].(map[string]any)
	assert.Equal(t, float64(0), stats["total_count"])
	assert.Equal(t, float64(0), payload["recommendations_count"])

	rec, payload = s.do(t, http.MethodGet, "/api/books/slug/deep-work", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(bookID), payload["id"])

	rec, payload = s.do(t, http.MethodGet, "/api/books/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "BOOK_NOT_FOUND", payload["code"])
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
