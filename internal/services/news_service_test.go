package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/database"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// countingStore wraps a MemoryStore, counting calls and failing on demand.
type countingStore struct {
	*database.MemoryStore
	calls    atomic.Int64
	failWhen func(filter database.ArticleFilter) bool
}

var errBroken = errors.New("connection reset")

func (s *countingStore) Find(ctx context.Context, filter database.ArticleFilter, skip, limit int64) ([]models.Article, error) {
	s.calls.Add(1)
	if s.failWhen != nil && s.failWhen(filter) {
		return nil, errBroken
	}

	return s.MemoryStore.Find(ctx, filter, skip, limit)
}

func (s *countingStore) Count(ctx context.Context, filter database.ArticleFilter) (int64, error) {
	s.calls.Add(1)
	if s.failWhen != nil && s.failWhen(filter) {
		return 0, errBroken
	}

	return s.MemoryStore.Count(ctx, filter)
}

func (s *countingStore) FindByID(ctx context.Context, id string) (*models.Article, error) {
	s.calls.Add(1)
	if s.failWhen != nil && s.failWhen(database.ArticleFilter{}) {
		return nil, errBroken
	}

	return s.MemoryStore.FindByID(ctx, id)
}

func newStore(t *testing.T, counts map[string]int) (*countingStore, map[string][]models.Article) {
	t.Helper()

	store := &countingStore{MemoryStore: database.NewMemoryStore()}
	byCategory := make(map[string][]models.Article)

	// insert categories in a fixed order so fetched_at values are unique
	minute := 0
	for _, category := range models.DefaultCategoryLabels {
		for i := 0; i < counts[category]; i++ {
			a := models.Article{
				ID:        models.NewID(),
				Title:     fmt.Sprintf("%s %02d", category, i),
				Summary:   "summary of " + category,
				Category:  category,
				FetchedAt: base.Add(time.Duration(minute) * time.Minute),
			}
			minute++
			byCategory[category] = append(byCategory[category], a)
		}

		if _, err := store.InsertMany(context.Background(), byCategory[category]); err != nil {
			t.Fatalf("InsertMany failed: %v", err)
		}
	}

	return store, byCategory
}

func TestListByCategory_TechnologyThirdPage(t *testing.T) {
	store, seeded := newStore(t, map[string]int{"Technology": 25, "Sports": 4})
	svc := NewArticleService(store, models.DefaultCategories(), 100)

	got, err := svc.ListByCategory(context.Background(), "Technology", 3, 10)
	if err != nil {
		t.Fatalf("ListByCategory error: %v", err)
	}

	if len(got.Items) != 5 || got.Total != 25 || got.TotalPages != 3 || got.HasMore {
		t.Fatalf("got items=%d total=%d pages=%d hasMore=%v", len(got.Items), got.Total, got.TotalPages, got.HasMore)
	}

	tech := seeded["Technology"]
	for i, a := range got.Items {
		// 21st..25th most recent are the five oldest, newest first
		if want := tech[4-i]; a.ID != want.ID {
			t.Errorf("item %d = %s, want %s", i, a.Title, want.Title)
		}

		if a.Category != "Technology" {
			t.Errorf("item %d category = %s", i, a.Category)
		}
	}
}

func TestListByCategory_PageMath(t *testing.T) {
	store, _ := newStore(t, map[string]int{"Finance": 7})
	svc := NewArticleService(store, models.DefaultCategories(), 100)

	tests := []struct {
		name        string
		page, limit int64
		wantLen     int
		wantPage    int64
		wantLimit   int64
		wantPages   int64
		wantHasMore bool
	}{
		{"first page", 1, 3, 3, 1, 3, 3, true},
		{"last partial page", 3, 3, 1, 3, 3, 3, false},
		{"past the end", 9, 3, 0, 9, 3, 3, false},
		{"exact fit", 1, 7, 7, 1, 7, 1, false},
		{"zero page becomes one", 0, 5, 5, 1, 5, 2, true},
		{"zero limit falls back", 1, 0, 7, 1, FallbackLimit, 1, false},
		{"page offset overflows int64", 1 << 62, 100, 0, 1 << 62, 100, 1, false},
		{"max page", math.MaxInt64, 3, 0, math.MaxInt64, 3, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListByCategory(context.Background(), "Finance", tt.page, tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got.Items) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got.Items), tt.wantLen)
			}

			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Errorf("page/limit = %d/%d, want %d/%d", got.Page, got.Limit, tt.wantPage, tt.wantLimit)
			}

			if got.Total != 7 {
				t.Errorf("Total = %d, want 7", got.Total)
			}

			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}

			if got.HasMore != tt.wantHasMore {
				t.Errorf("HasMore = %v, want %v", got.HasMore, tt.wantHasMore)
			}
		})
	}
}

func TestListByCategory_LimitCap(t *testing.T) {
	store, _ := newStore(t, map[string]int{"Opinion": 12})
	svc := NewArticleService(store, models.DefaultCategories(), 5)

	got, err := svc.ListByCategory(context.Background(), "Opinion", 1, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Limit != 5 || len(got.Items) != 5 || got.TotalPages != 3 {
		t.Errorf("limit=%d len=%d pages=%d", got.Limit, len(got.Items), got.TotalPages)
	}
}

func TestCategoryValidation(t *testing.T) {
	store, _ := newStore(t, map[string]int{"Sports": 2})
	svc := NewArticleService(store, models.DefaultCategories(), 100)
	ctx := context.Background()

	tests := []struct {
		name     string
		category string
		wantErr  error
	}{
		{"missing", "", ErrMissingCategory},
		{"unknown", "Weather", ErrInvalidCategory},
		{"wrong case", "sports", ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := store.calls.Load()

			if _, err := svc.ListByCategory(ctx, tt.category, 1, 10); !errors.Is(err, tt.wantErr) {
				t.Errorf("ListByCategory err = %v, want %v", err, tt.wantErr)
			}

			if _, err := svc.ListLatestByCategory(ctx, tt.category, 5); !errors.Is(err, tt.wantErr) {
				t.Errorf("ListLatestByCategory err = %v, want %v", err, tt.wantErr)
			}

			if store.calls.Load() != before {
				t.Error("validation failure reached the store")
			}
		})
	}
}

func TestListLatestGlobal(t *testing.T) {
	store, _ := newStore(t, map[string]int{"Mumbai": 3, "Aviation": 3})
	svc := NewArticleService(store, models.DefaultCategories(), 100)

	got, err := svc.ListLatestGlobal(context.Background(), 1, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Total != 6 || len(got.Items) != 4 || !got.HasMore {
		t.Fatalf("total=%d len=%d hasMore=%v", got.Total, len(got.Items), got.HasMore)
	}

	for i := 1; i < len(got.Items); i++ {
		if got.Items[i].FetchedAt.After(got.Items[i-1].FetchedAt) {
			t.Errorf("items not sorted newest first at %d", i)
		}
	}
}

func TestListGroupedByCategory(t *testing.T) {
	store, _ := newStore(t, map[string]int{"Technology": 6, "Sports": 2, "Opinion": 1})
	svc := NewArticleService(store, models.DefaultCategories(), 100)

	grouped, err := svc.ListGroupedByCategory(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(grouped) != len(models.DefaultCategoryLabels) {
		t.Fatalf("keys = %d, want %d", len(grouped), len(models.DefaultCategoryLabels))
	}

	for _, category := range models.DefaultCategoryLabels {
		items, ok := grouped[category]
		if !ok {
			t.Errorf("missing key %q", category)
			continue
		}

		if items == nil {
			t.Errorf("%q: nil list, want empty", category)
		}

		if len(items) > 4 {
			t.Errorf("%q: len = %d, want <= 4", category, len(items))
		}
	}

	if len(grouped["Technology"]) != 4 || len(grouped["Sports"]) != 2 || len(grouped["Finance"]) != 0 {
		t.Errorf("unexpected sizes: tech=%d sports=%d finance=%d",
			len(grouped["Technology"]), len(grouped["Sports"]), len(grouped["Finance"]))
	}
}

func TestListGroupedByCategory_AllOrNothing(t *testing.T) {
	store, _ := newStore(t, map[string]int{"Technology": 3})
	store.failWhen = func(f database.ArticleFilter) bool { return f.Category == "Aviation" }
	svc := NewArticleService(store, models.DefaultCategories(), 100)

	grouped, err := svc.ListGroupedByCategory(context.Background(), 4)
	if grouped != nil {
		t.Errorf("expected no partial result, got %d keys", len(grouped))
	}

	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StorageError", err)
	}

	if !errors.Is(err, errBroken) {
		t.Errorf("cause not preserved: %v", err)
	}

	if se.Op != "list grouped: Aviation" {
		t.Errorf("Op = %q, want the failing category", se.Op)
	}
}

// stallingStore blocks every category but one until its context ends.
type stallingStore struct {
	*database.MemoryStore
	failing string
}

func (s stallingStore) Find(ctx context.Context, filter database.ArticleFilter, _, _ int64) ([]models.Article, error) {
	if filter.Category == s.failing {
		return nil, errBroken
	}

	<-ctx.Done()

	return nil, ctx.Err()
}

func TestListGroupedByCategory_FailureCancelsSiblings(t *testing.T) {
	store := stallingStore{MemoryStore: database.NewMemoryStore(), failing: "Opinion"}
	svc := NewArticleService(store, models.DefaultCategories(), 100)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := svc.ListGroupedByCategory(ctx, 4)
	if !errors.Is(err, errBroken) {
		t.Fatalf("err = %v, want the failing category's error", err)
	}

	if ctx.Err() != nil {
		t.Error("siblings ran until the outer deadline instead of being cancelled")
	}
}

func TestGetByID(t *testing.T) {
	store, seeded := newStore(t, map[string]int{"Finance": 2})
	svc := NewArticleService(store, models.DefaultCategories(), 100)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		want := seeded["Finance"][1]

		got, err := svc.GetByID(ctx, want.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.Title != want.Title {
			t.Errorf("Title = %s, want %s", got.Title, want.Title)
		}
	})

	t.Run("malformed id skips store", func(t *testing.T) {
		before := store.calls.Load()

		if _, err := svc.GetByID(ctx, "not-an-id"); !errors.Is(err, ErrInvalidID) {
			t.Errorf("err = %v, want ErrInvalidID", err)
		}

		if store.calls.Load() != before {
			t.Error("malformed id reached the store")
		}
	})

	t.Run("well formed but absent", func(t *testing.T) {
		if _, err := svc.GetByID(ctx, models.NewID()); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		store.failWhen = func(database.ArticleFilter) bool { return true }
		defer func() { store.failWhen = nil }()

		var se *StorageError
		if _, err := svc.GetByID(ctx, models.NewID()); !errors.As(err, &se) {
			t.Errorf("err = %v, want *StorageError", err)
		}
	})
}

func TestSearch(t *testing.T) {
	store, _ := newStore(t, map[string]int{"Technology": 3, "Finance": 2})
	svc := NewArticleService(store, models.DefaultCategories(), 100)
	ctx := context.Background()

	if _, err := svc.Search(ctx, "   ", "", 1, 10); !errors.Is(err, ErrMissingQuery) {
		t.Errorf("blank query err = %v, want ErrMissingQuery", err)
	}

	if _, err := svc.Search(ctx, "summary", "Weather", 1, 10); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("bad category err = %v, want ErrInvalidCategory", err)
	}

	got, err := svc.Search(ctx, "SUMMARY OF", "", 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Total != 5 {
		t.Errorf("Total = %d, want 5", got.Total)
	}

	got, err = svc.Search(ctx, "summary", "Finance", 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Total != 2 {
		t.Errorf("Total in Finance = %d, want 2", got.Total)
	}
}
