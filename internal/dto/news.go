package dto

import (
	"time"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/services"
)

// PagedArticlesResponse is the body of every paged listing.
type PagedArticlesResponse struct {
	Page       int64            `json:"page"`
	Limit      int64            `json:"limit"`
	Total      int64            `json:"total"`
	TotalPages int64            `json:"totalPages"`
	HasMore    bool             `json:"hasMore"`
	Articles   []models.Article `json:"articles"`
}

func NewPagedArticles(r *services.PageResult) PagedArticlesResponse {
	return PagedArticlesResponse{
		Page:       r.Page,
		Limit:      r.Limit,
		Total:      r.Total,
		TotalPages: r.TotalPages,
		HasMore:    r.HasMore,
		Articles:   r.Items,
	}
}

// ArticlesResponse is the unpaged preview shape.
type ArticlesResponse struct {
	Articles []models.Article `json:"articles"`
}

type ArticleResponse struct {
	Article *models.Article `json:"article"`
}

type CategoriesResponse struct {
	Categories   []models.CategoryStat `json:"categories"`
	Total        int64                 `json:"total"`
	CalculatedAt time.Time             `json:"calculated_at"`
}

type BookmarksResponse struct {
	Bookmarks []string `json:"bookmarks"`
}

type BookmarkChangeResponse struct {
	Message   string `json:"message"`
	ArticleID string `json:"article_id"`
}
