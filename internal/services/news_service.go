package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/database"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/logger"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

// FallbackLimit is used when a caller passes a non-positive page size.
const FallbackLimit int64 = 20

// ArticleReader is the read side of database.ArticleStore.
type ArticleReader interface {
	Find(ctx context.Context, filter database.ArticleFilter, skip, limit int64) ([]models.Article, error)
	Count(ctx context.Context, filter database.ArticleFilter) (int64, error)
	FindByID(ctx context.Context, id string) (*models.Article, error)
}

// PageResult is one offset page of a filtered, sorted article list.
type PageResult struct {
	Items      []models.Article
	Page       int64
	Limit      int64
	Total      int64
	TotalPages int64
	HasMore    bool
}

// ArticleService answers the read queries of the article API. Every
// operation is a stateless read against the store.
type ArticleService struct {
	store      ArticleReader
	categories models.CategorySet
	maxLimit   int64

	parser       QueryParser
	parseTimeout time.Duration
	log          *logger.Logger
}

// NewArticleService creates the service. maxLimit caps every page size;
// zero or less disables the cap.
func NewArticleService(store ArticleReader, categories models.CategorySet, maxLimit int64) *ArticleService {
	return &ArticleService{
		store:      store,
		categories: categories,
		maxLimit:   maxLimit,
		log:        logger.Discard(),
	}
}

// Categories returns the category set the service validates against.
func (s *ArticleService) Categories() models.CategorySet {
	return s.categories
}

func (s *ArticleService) validateCategory(category string) error {
	if category == "" {
		return ErrMissingCategory
	}

	if !s.categories.Contains(category) {
		return ErrInvalidCategory
	}

	return nil
}

func (s *ArticleService) normalize(page, limit int64) (int64, int64) {
	if page <= 0 {
		page = 1
	}

	if limit <= 0 {
		limit = FallbackLimit
	}

	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}

	return page, limit
}

func (s *ArticleService) listPage(ctx context.Context, op string, filter database.ArticleFilter, page, limit int64) (*PageResult, error) {
	page, limit = s.normalize(page, limit)

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, storageError(op, err)
	}

	result := &PageResult{
		Items:      []models.Article{},
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages(total, limit),
	}

	skip, ok := pageOffset(page, limit)
	if !ok || skip >= total {
		// past the end: nothing to read
		return result, nil
	}

	items, err := s.store.Find(ctx, filter, skip, limit)
	if err != nil {
		return nil, storageError(op, err)
	}

	if items != nil {
		result.Items = items
	}

	result.HasMore = skip+int64(len(result.Items)) < total

	return result, nil
}

// pageOffset returns (page-1)*limit, or ok=false when the product does not
// fit in an int64 together with one more page.
func pageOffset(page, limit int64) (int64, bool) {
	if page-1 > (math.MaxInt64-limit)/limit {
		return 0, false
	}

	return (page - 1) * limit, true
}

func totalPages(total, limit int64) int64 {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	return pages
}

// ListByCategory returns one page of articles in category, newest first.
func (s *ArticleService) ListByCategory(ctx context.Context, category string, page, limit int64) (*PageResult, error) {
	if err := s.validateCategory(category); err != nil {
		return nil, err
	}

	return s.listPage(ctx, "list by category", database.ArticleFilter{Category: category}, page, limit)
}

// ListLatestGlobal returns one page of all articles, newest first.
func (s *ArticleService) ListLatestGlobal(ctx context.Context, page, limit int64) (*PageResult, error) {
	return s.listPage(ctx, "list latest", database.ArticleFilter{}, page, limit)
}

// ListLatestByCategory returns the newest limit articles in category
// without counting the total.
func (s *ArticleService) ListLatestByCategory(ctx context.Context, category string, limit int64) ([]models.Article, error) {
	if err := s.validateCategory(category); err != nil {
		return nil, err
	}

	items, err := s.latest(ctx, category, limit)
	if err != nil {
		return nil, storageError("list latest by category", err)
	}

	return items, nil
}

func (s *ArticleService) latest(ctx context.Context, category string, limit int64) ([]models.Article, error) {
	_, limit = s.normalize(1, limit)

	items, err := s.store.Find(ctx, database.ArticleFilter{Category: category}, 0, limit)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []models.Article{}
	}

	return items, nil
}

// ListGroupedByCategory runs a latest query for every category concurrently
// and returns one entry per category, empty lists included. The first
// failing sub-query cancels the rest and fails the whole call.
func (s *ArticleService) ListGroupedByCategory(ctx context.Context, limit int64) (map[string][]models.Article, error) {
	labels := s.categories.Labels()
	results := make([][]models.Article, len(labels))

	g, ctx := errgroup.WithContext(ctx)
	for i, category := range labels {
		i, category := i, category
		g.Go(func() error {
			items, err := s.latest(ctx, category, limit)
			if err != nil {
				return &StorageError{Op: "list grouped: " + category, Err: err}
			}

			results[i] = items

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.Article, len(labels))
	for i, category := range labels {
		grouped[category] = results[i]
	}

	return grouped, nil
}

// GetByID returns a single article. Malformed ids fail before the store is
// touched.
func (s *ArticleService) GetByID(ctx context.Context, id string) (*models.Article, error) {
	if !models.ValidID(id) {
		return nil, ErrInvalidID
	}

	article, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNoDocument) {
			return nil, ErrNotFound
		}

		return nil, storageError("get article", err)
	}

	return article, nil
}

// Search returns a page of articles whose title or summary contains query,
// optionally restricted to one category.
func (s *ArticleService) Search(ctx context.Context, query, category string, page, limit int64) (*PageResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMissingQuery
	}

	if category != "" && !s.categories.Contains(category) {
		return nil, ErrInvalidCategory
	}

	return s.listPage(ctx, "search", database.ArticleFilter{Category: category, Query: query}, page, limit)
}
