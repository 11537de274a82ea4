package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"aireading/internal/auth"
	"aireading/internal/service"
	"aireading/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users     service.UserService
	books     service.BookService
	reviews   service.ReviewService
	recs      service.RecommendationService
	library   service.LibraryService
	codec     *auth.Codec
	guard     *auth.Guard
	storage   storage.Service
	bucket    string
	urlTTL    time.Duration
	cookieTTL time.Duration
	logger    *logrus.Logger
}

type Config struct {
	Users          service.UserService
	Books          service.BookService
	Reviews        service.ReviewService
	Recommendation service.RecommendationService
	Library        service.LibraryService
	Codec          *auth.Codec
	Storage        storage.Service
	Bucket         string
	URLTTL         time.Duration
	CookieTTL      time.Duration
	Logger         *logrus.Logger
}

func NewHandler(cfg Config) *Handler {
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = time.Hour
	}
	if cfg.CookieTTL <= 0 {
		cfg.CookieTTL = auth.DefaultTokenTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Handler{
		users:     cfg.Users,
		books:     cfg.Books,
		reviews:   cfg.Reviews,
		recs:      cfg.Recommendation,
		library:   cfg.Library,
		codec:     cfg.Codec,
		guard:     auth.NewGuard(cfg.Codec),
		storage:   cfg.Storage,
		bucket:    cfg.Bucket,
		urlTTL:    cfg.URLTTL,
		cookieTTL: cfg.CookieTTL,
		logger:    cfg.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(requestLogger(h.logger))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.register)
			authGroup.POST("/login", h.login)
			authGroup.POST("/logout", h.logout)
			authGroup.GET("/me", h.me)
		}

		user := api.Group("/user", h.guard.RequireAuth())
		{
			user.GET("/profile", h.getProfile)
			user.PUT("/profile", h.updateProfile)
			user.GET("/favorites", h.listFavorites)
			user.POST("/favorites", h.addFavorite)
			user.DELETE("/favorites/:bookId", h.removeFavorite)
			user.GET("/history", h.listHistory)
			user.POST("/history", h.recordHistory)
			user.GET("/reviews", h.listUserReviews)
		}

		books := api.Group("/books")
		{
			books.GET("", h.listBooks)
			books.GET("/:id", h.guard.OptionalAuth(), h.getBook)
			books.GET("/slug/:slug", h.guard.OptionalAuth(), h.getBookBySlug)
			books.GET("/:id/audio", h.guard.OptionalAuth(), h.getBookAudio)
			books.GET("/:id/reviews", h.guard.OptionalAuth(), h.listBookReviews)
			books.POST("/:id/reviews", h.guard.RequireAuth(), h.createReview)
			books.GET("/:id/recommendations", h.listBookRecommendations)
		}

		reviews := api.Group("/reviews", h.guard.RequireAuth())
		{
			reviews.PUT("/:id", h.updateReview)
			reviews.DELETE("/:id", h.deleteReview)
			reviews.POST("/:id/like", h.likeReview)
			reviews.DELETE("/:id/like", h.unlikeReview)
		}

		api.GET("/recommendations/featured", h.listFeaturedRecommendations)
	}
}
