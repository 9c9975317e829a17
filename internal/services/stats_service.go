package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/database"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/logger"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

// CategoryStatsKey is the Redis key holding the cached counts.
const CategoryStatsKey = "categories:counts"

// StatsCache is the subset of redis.Cmdable used for the stats cache.
type StatsCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CategoryStatsService counts articles per category and caches the result.
type CategoryStatsService struct {
	store      ArticleReader
	cache      StatsCache
	categories models.CategorySet
	ttl        time.Duration
	log        *logger.Logger
	now        func() time.Time
}

// NewCategoryStatsService creates the service. cache may be nil, in which
// case every Get recalculates.
func NewCategoryStatsService(store ArticleReader, cache StatsCache, categories models.CategorySet, ttl time.Duration, log *logger.Logger) *CategoryStatsService {
	return &CategoryStatsService{
		store:      store,
		cache:      cache,
		categories: categories,
		ttl:        ttl,
		log:        log,
		now:        time.Now,
	}
}

// Calculate counts articles for every category in display order.
func (s *CategoryStatsService) Calculate(ctx context.Context) (*models.CategoryStats, error) {
	now := s.now().UTC()
	stats := &models.CategoryStats{
		Categories:   make([]models.CategoryStat, 0, s.categories.Len()),
		CalculatedAt: now,
		ExpiresAt:    now.Add(s.ttl),
	}

	for _, category := range s.categories.Labels() {
		n, err := s.store.Count(ctx, database.ArticleFilter{Category: category})
		if err != nil {
			return nil, storageError("count category "+category, err)
		}

		stats.Categories = append(stats.Categories, models.CategoryStat{Category: category, Count: n})
		stats.Total += n
	}

	return stats, nil
}

// Get serves the cached counts, calculating and caching them on a miss.
// Cache failures are logged and fall back to a fresh calculation.
func (s *CategoryStatsService) Get(ctx context.Context) (*models.CategoryStats, error) {
	if s.cache == nil {
		return s.Calculate(ctx)
	}

	val, err := s.cache.Get(ctx, CategoryStatsKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return s.refresh(ctx)
	case err != nil:
		s.log.Warn("category stats cache read failed", "error", err)
		return s.Calculate(ctx)
	}

	var stats models.CategoryStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		s.log.Warn("discarding undecodable category stats", "error", err)
		return s.refresh(ctx)
	}

	return &stats, nil
}

// Refresh recalculates the counts and overwrites the cache. It is run by
// the stats cron job.
func (s *CategoryStatsService) Refresh(ctx context.Context) error {
	_, err := s.refresh(ctx)
	return err
}

func (s *CategoryStatsService) refresh(ctx context.Context) (*models.CategoryStats, error) {
	stats, err := s.Calculate(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache == nil {
		return stats, nil
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		s.log.Error("failed to marshal category stats", "error", err)
		return stats, nil
	}

	if err := s.cache.Set(ctx, CategoryStatsKey, payload, s.ttl).Err(); err != nil {
		s.log.Warn("failed to cache category stats", "error", err)
	}

	return stats, nil
}
