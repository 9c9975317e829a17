package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/bookmarks"
	bookmarkHandlers "github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/bookmarks/handlers"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/config"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/database"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/handlers"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/logger"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/routes"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/services"
)

func TestQueryPath(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		page int
		want string
	}{
		{"latest", Latest(20), 1, "/api/articles2/latest?limit=20&page=1"},
		{"category", ForCategory("Breaking News", 10), 2, "/api/articles?category=Breaking+News&limit=10&page=2"},
		{"search", Search(" rupee ", "", 12), 1, "/api/articles/search?limit=12&page=1&q=rupee"},
		{"search in category", Search("rbi", "Finance", 0), 0, "/api/articles/search?category=Finance&page=1&q=rbi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Path(tt.page); got != tt.want {
				t.Errorf("Path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQueryValidate(t *testing.T) {
	set := models.DefaultCategories()

	valid := []Query{Latest(5), ForCategory("Mumbai", 5), Search("x", "", 5), Search("x", "Sports", 5)}
	for _, q := range valid {
		if err := q.Validate(set); err != nil {
			t.Errorf("%s: unexpected error %v", q, err)
		}
	}

	invalid := []Query{ForCategory("", 5), ForCategory("Weather", 5), Search("  ", "", 5), Search("x", "Weather", 5), Latest(-1)}
	for _, q := range invalid {
		if err := q.Validate(set); err == nil {
			t.Errorf("%s: expected error", q)
		}
	}
}

// newAPIServer serves the real routes over an in-memory store.
func newAPIServer(t *testing.T, n int) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := database.NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var seed []models.Article
	for i := 0; i < n; i++ {
		seed = append(seed, models.Article{
			ID:          models.NewID(),
			Title:       fmt.Sprintf("Tech %02d", i),
			Category:    "Technology",
			Source:      "Mint",
			PublishedDt: models.DateFromTime(base),
			FetchedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}

	if _, err := store.InsertMany(context.Background(), seed); err != nil {
		t.Fatalf("InsertMany failed: %v", err)
	}

	cfg := config.Default()
	log := logger.Discard()
	categories := models.DefaultCategories()
	articles := services.NewArticleService(store, categories, 100)
	stats := services.NewCategoryStatsService(store, nil, categories, time.Minute, log)

	r := gin.New()
	routes.SetupRoutes(r, routes.Handlers{
		Articles:  handlers.NewArticleHandler(articles, stats, cfg.Feed, time.Second, log),
		Bookmarks: bookmarkHandlers.NewBookmarkHandler(bookmarks.NewService(bookmarks.NewMemoryStore(), articles), log),
		Health:    handlers.NewHealthHandler(store, nil, log),
	}, cfg.Feed, log)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

func TestClientAndPager_EndToEnd(t *testing.T) {
	srv := newAPIServer(t, 25)
	client := NewClient(srv.URL + "/")
	ctx := context.Background()

	p := NewPager(client, Normalizer{})
	if err := p.Reset(ctx, ForCategory("Technology", 10)); err != nil {
		t.Fatalf("Reset error: %v", err)
	}

	for p.Snapshot().HasMore {
		if err := p.LoadMore(ctx); err != nil {
			t.Fatalf("LoadMore error: %v", err)
		}
	}

	s := p.Snapshot()
	if len(s.Items) != 25 || s.Page != 3 || s.Total != 25 {
		t.Fatalf("items=%d page=%d total=%d", len(s.Items), s.Page, s.Total)
	}

	if s.Items[0].Title != "Tech 24" || s.Items[24].Title != "Tech 00" {
		t.Errorf("order: first %q last %q", s.Items[0].Title, s.Items[24].Title)
	}

	if s.Items[0].Published != "Jan 1, 2024, 12:00 AM" || s.Items[0].ReadTime != "1 min read" {
		t.Errorf("normalized view = %+v", s.Items[0])
	}

	var buf bytes.Buffer
	if err := WriteTable(&buf, s.Items[:3], 0); err != nil {
		t.Fatalf("WriteTable error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 || !strings.Contains(lines[2], "Tech 24") {
		t.Errorf("table:\n%s", buf.String())
	}
}

func TestClient_GroupedAndArticle(t *testing.T) {
	srv := newAPIServer(t, 3)
	client := NewClient(srv.URL)
	ctx := context.Background()

	grouped, err := client.Grouped(ctx, 2)
	if err != nil {
		t.Fatalf("Grouped error: %v", err)
	}

	if len(grouped) != 10 || len(grouped["Technology"]) != 2 {
		t.Fatalf("grouped = %d keys, tech %d", len(grouped), len(grouped["Technology"]))
	}

	id := grouped["Technology"][0].ID

	a, err := client.Article(ctx, id)
	if err != nil {
		t.Fatalf("Article error: %v", err)
	}

	if a.ID != id {
		t.Errorf("Article id = %s, want %s", a.ID, id)
	}

	_, err = client.Article(ctx, "bogus")

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Invalid article id" {
		t.Errorf("err = %v, want 400 APIError", err)
	}
}

func TestClient_HasMoreFallback(t *testing.T) {
	// responses without hasMore derive it from the totals
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"page":1,"limit":2,"total":3,"totalPages":2,"articles":[{"_id":"a"},{"_id":"b"}]}`)
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL).Fetch(context.Background(), ForCategory("Sports", 2), 1)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if !page.HasMore || page.Items[0].Key() != "a" {
		t.Errorf("page = %+v", page)
	}
}
