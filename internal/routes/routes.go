package routes

import (
	"github.com/gin-gonic/gin"

	bookmarkHandlers "github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/bookmarks/handlers"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/config"
	newsHandlers "github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/handlers"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/logger"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/middleware"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	Articles  *newsHandlers.ArticleHandler
	Bookmarks *bookmarkHandlers.BookmarkHandler
	Health    *newsHandlers.HealthHandler
}

func SetupRoutes(r *gin.Engine, h Handlers, limits config.FeedConfig, log *logger.Logger) {
	// Apply global middleware
	r.Use(middleware.Logger(log), middleware.CORS())

	api := r.Group("/api")

	articles := api.Group("/articles", middleware.NoCache())
	{
		articles.GET("", h.Articles.ListArticles)
		articles.GET("/latest", h.Articles.Latest(limits.LatestLimit))
		articles.GET("/latest/:category", h.Articles.LatestByCategory)
		articles.GET("/grouped", h.Articles.Grouped(limits.GroupedLimit))
		articles.GET("/category/:category", h.Articles.ListCategoryArticles)
		articles.GET("/search", h.Articles.Search)
		articles.GET("/:id", h.Articles.GetArticle)
	}

	api.GET("/articles2/latest", middleware.NoCache(), h.Articles.Latest(limits.HomeLatestLimit))
	api.GET("/latest-by-category", middleware.NoCache(), h.Articles.Grouped(limits.HomeGroupedLimit))
	api.GET("/categories", h.Articles.Categories)

	users := api.Group("/users/:uid/bookmarks")
	{
		users.GET("", h.Bookmarks.ListBookmarks)
		users.GET("/articles", h.Bookmarks.ListBookmarkedArticles)
		users.PUT("/:id", h.Bookmarks.AddBookmark)
		users.DELETE("/:id", h.Bookmarks.RemoveBookmark)
	}

	// Health check
	r.GET("/ping", h.Health.Ping)
	r.GET("/healthz", h.Health.Health)
}
