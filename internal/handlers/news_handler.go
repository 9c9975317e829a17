package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/config"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/dto"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/logger"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/services"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/utils"
)

// ArticleHandler serves the read-only article endpoints.
type ArticleHandler struct {
	articles     *services.ArticleService
	stats        *services.CategoryStatsService
	limits       config.FeedConfig
	queryTimeout time.Duration
	log          *logger.Logger
}

func NewArticleHandler(articles *services.ArticleService, stats *services.CategoryStatsService, limits config.FeedConfig, queryTimeout time.Duration, log *logger.Logger) *ArticleHandler {
	return &ArticleHandler{
		articles:     articles,
		stats:        stats,
		limits:       limits,
		queryTimeout: queryTimeout,
		log:          log,
	}
}

func (h *ArticleHandler) queryContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.queryTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}

	return context.WithTimeout(c.Request.Context(), h.queryTimeout)
}

// getPaginationParams reads page and limit, writing a 400 and returning
// ok=false when either is malformed.
func getPaginationParams(c *gin.Context, defaultLimit int) (page, limit int64, ok bool) {
	page, ok = positiveQuery(c, "page", 1)
	if !ok {
		utils.ErrorResponse(c, 400, "Invalid page number")
		return 0, 0, false
	}

	limit, ok = positiveQuery(c, "limit", int64(defaultLimit))
	if !ok {
		utils.ErrorResponse(c, 400, "Invalid page size")
		return 0, 0, false
	}

	return page, limit, true
}

func getLimitParam(c *gin.Context, defaultLimit int) (int64, bool) {
	limit, ok := positiveQuery(c, "limit", int64(defaultLimit))
	if !ok {
		utils.ErrorResponse(c, 400, "Invalid page size")
		return 0, false
	}

	return limit, true
}

func positiveQuery(c *gin.Context, name string, def int64) (int64, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return def, true
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, false
	}

	return v, true
}

// GET /api/articles?category=
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	h.listByCategory(c, c.Query("category"))
}

// GET /api/articles/category/:category
func (h *ArticleHandler) ListCategoryArticles(c *gin.Context) {
	h.listByCategory(c, c.Param("category"))
}

func (h *ArticleHandler) listByCategory(c *gin.Context, category string) {
	page, limit, ok := getPaginationParams(c, h.limits.CategoryLimit)
	if !ok {
		return
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	result, err := h.articles.ListByCategory(ctx, category, page, limit)
	if err != nil {
		WriteError(c, h.log, err)
		return
	}

	utils.SuccessResponse(c, dto.NewPagedArticles(result))
}

// Latest serves the global newest-first listing with the given default
// page size. Several routes share it with different defaults.
func (h *ArticleHandler) Latest(defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, ok := getPaginationParams(c, defaultLimit)
		if !ok {
			return
		}

		ctx, cancel := h.queryContext(c)
		defer cancel()

		result, err := h.articles.ListLatestGlobal(ctx, page, limit)
		if err != nil {
			WriteError(c, h.log, err)
			return
		}

		utils.SuccessResponse(c, dto.NewPagedArticles(result))
	}
}

// GET /api/articles/latest/:category
func (h *ArticleHandler) LatestByCategory(c *gin.Context) {
	limit, ok := getLimitParam(c, h.limits.PreviewLimit)
	if !ok {
		return
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	items, err := h.articles.ListLatestByCategory(ctx, c.Param("category"), limit)
	if err != nil {
		WriteError(c, h.log, err)
		return
	}

	utils.SuccessResponse(c, dto.ArticlesResponse{Articles: items})
}

// Grouped serves the per-category preview map with the given default size.
func (h *ArticleHandler) Grouped(defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := getLimitParam(c, defaultLimit)
		if !ok {
			return
		}

		ctx, cancel := h.queryContext(c)
		defer cancel()

		grouped, err := h.articles.ListGroupedByCategory(ctx, limit)
		if err != nil {
			WriteError(c, h.log, err)
			return
		}

		utils.SuccessResponse(c, grouped)
	}
}

// GET /api/articles/search?q=&category=
// Phrases are read by the query parser when one is configured.
func (h *ArticleHandler) Search(c *gin.Context) {
	page, limit, ok := getPaginationParams(c, h.limits.SearchLimit)
	if !ok {
		return
	}

	ctx, cancel := h.queryContext(c)
	defer cancel()

	result, err := h.articles.SmartSearch(ctx, c.Query("q"), c.Query("category"), page, limit)
	if err != nil {
		WriteError(c, h.log, err)
		return
	}

	utils.SuccessResponse(c, dto.NewPagedArticles(result))
}

// GET /api/articles/:id
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	ctx, cancel := h.queryContext(c)
	defer cancel()

	article, err := h.articles.GetByID(ctx, c.Param("id"))
	if err != nil {
		WriteError(c, h.log, err)
		return
	}

	utils.SuccessResponse(c, dto.ArticleResponse{Article: article})
}

// GET /api/categories
func (h *ArticleHandler) Categories(c *gin.Context) {
	ctx, cancel := h.queryContext(c)
	defer cancel()

	stats, err := h.stats.Get(ctx)
	if err != nil {
		WriteError(c, h.log, err)
		return
	}

	utils.SuccessResponse(c, dto.CategoriesResponse{
		Categories:   stats.Categories,
		Total:        stats.Total,
		CalculatedAt: stats.CalculatedAt,
	})
}
