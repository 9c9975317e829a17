package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/config"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

const fixtureYAML = `
articles:
  - id: 507f1f77bcf86cd799439011
    title: Rupee closes higher
    link: https://example.com/rupee
    summary: Currency update
    full_text: "The rupee closed higher today"
    source: Mint
    category: Finance
    published_dt: "2024-01-01T00:00:00Z"
    fetched_at: "2024-01-02T10:00:00Z"
  - title: Epoch dated
    category: Technology
    published_dt: 1704067200000
  - title: Envelope dated
    category: Sports
    published_dt: '{"$date":{"$numberLong":"1704067200000"}}'
`

func TestParseFixtures(t *testing.T) {
	articles, err := ParseFixtures([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("ParseFixtures failed: %v", err)
	}

	if len(articles) != 3 {
		t.Fatalf("len = %d, want 3", len(articles))
	}

	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	kinds := []models.DateKind{models.DateISO, models.DateEpoch, models.DateEnvelope}

	for i, a := range articles {
		if a.PublishedDt.Kind != kinds[i] {
			t.Errorf("article %d kind = %s, want %s", i, a.PublishedDt.Kind, kinds[i])
		}

		if !a.PublishedDt.At.Equal(want) {
			t.Errorf("article %d published = %v", i, a.PublishedDt.At)
		}

		if a.ArticleHash == "" {
			t.Errorf("article %d missing hash", i)
		}

		if a.FetchedAt.IsZero() {
			t.Errorf("article %d missing fetched_at", i)
		}
	}

	if articles[0].FullText == nil || *articles[0].FullText == "" {
		t.Error("full_text not decoded")
	}

	if articles[1].FullText != nil {
		t.Error("absent full_text must stay nil")
	}

	// hashes derived from the same link are stable
	again, _ := ParseFixtures([]byte(fixtureYAML))
	if again[0].ArticleHash != articles[0].ArticleHash {
		t.Error("link-derived hash is not deterministic")
	}
}

func TestParseFixtures_BadID(t *testing.T) {
	_, err := ParseFixtures([]byte("articles:\n  - id: nope\n    title: x\n"))
	if err == nil {
		t.Error("expected malformed id error")
	}
}

func TestOpen_MemoryWithFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	if err := os.WriteFile(path, []byte(fixtureYAML), 0644); err != nil {
		t.Fatalf("write fixtures: %v", err)
	}

	store, err := Open(context.Background(), config.StoreConfig{Driver: config.DriverMemory, FixturesPath: path})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	n, err := store.Count(context.Background(), ArticleFilter{})
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}

	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.StoreConfig{Driver: "cassandra"}); err == nil {
		t.Error("expected error")
	}
}

func TestNewRedis_Disabled(t *testing.T) {
	rdb, err := NewRedis(context.Background(), config.RedisConfig{})
	if err != nil || rdb != nil {
		t.Errorf("NewRedis() = %v, %v; want nil, nil", rdb, err)
	}
}
