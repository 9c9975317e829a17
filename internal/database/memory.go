package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

// MemoryStore keeps articles in process. It backs the memory driver and the
// package tests of every layer above storage.
type MemoryStore struct {
	mu       sync.RWMutex
	articles []models.Article
	byID     map[string]int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

func (f ArticleFilter) matches(a models.Article) bool {
	if f.Category != "" && a.Category != f.Category {
		return false
	}

	if f.Source != "" && !strings.EqualFold(strings.TrimSpace(a.Source), strings.TrimSpace(f.Source)) {
		return false
	}

	if f.Query != "" && !textContains(a, f.Query) {
		return false
	}

	if keywords := f.keywords(); len(keywords) > 0 {
		for _, k := range keywords {
			if textContains(a, k) {
				return true
			}
		}

		return false
	}

	return true
}

func textContains(a models.Article, s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(strings.ToLower(a.Title), s) || strings.Contains(strings.ToLower(a.Summary), s)
}

func (s *MemoryStore) Find(ctx context.Context, filter ArticleFilter, skip, limit int64) ([]models.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]models.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if filter.matches(a) {
			matched = append(matched, a)
		}
	}
	s.mu.RUnlock()

	// stable: equal fetched_at keeps insertion order
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].FetchedAt.After(matched[j].FetchedAt)
	})

	if skip < 0 {
		skip = 0
	}

	if skip >= int64(len(matched)) {
		return []models.Article{}, nil
	}

	end := int64(len(matched))
	if limit > 0 && limit < end-skip {
		end = skip + limit
	}

	return matched[skip:end], nil
}

func (s *MemoryStore) Count(ctx context.Context, filter ArticleFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, a := range s.articles {
		if filter.matches(a) {
			n++
		}
	}

	return n, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*models.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return nil, ErrNoDocument
	}

	article := s.articles[idx]

	return &article, nil
}

func (s *MemoryStore) InsertMany(ctx context.Context, articles []models.Article) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make([]models.Article, 0, len(articles))
	seen := make(map[string]bool, len(articles))

	for _, a := range articles {
		if a.ID == "" {
			a.ID = models.NewID()
		}

		if _, dup := s.byID[a.ID]; dup || seen[a.ID] {
			return 0, fmt.Errorf("duplicate article id %s", a.ID)
		}

		if a.FetchedAt.IsZero() {
			a.FetchedAt = time.Now().UTC()
		}

		seen[a.ID] = true
		batch = append(batch, a)
	}

	for _, a := range batch {
		s.byID[a.ID] = len(s.articles)
		s.articles = append(s.articles, a)
	}

	return len(batch), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}
