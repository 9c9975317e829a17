package database

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

// fixtureFile is the YAML layout accepted by LoadFixtures and `newsctl seed`.
type fixtureFile struct {
	Articles []fixtureArticle `yaml:"articles"`
}

type fixtureArticle struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Link        string  `yaml:"link"`
	Summary     string  `yaml:"summary"`
	FullText    *string `yaml:"full_text"`
	ImageURL    string  `yaml:"image_url"`
	Source      string  `yaml:"source"`
	Category    string  `yaml:"category"`
	PublishedDt string  `yaml:"published_dt"`
	FetchedAt   string  `yaml:"fetched_at"`
	ArticleHash string  `yaml:"article_hash"`
}

// LoadFixtures reads articles from a YAML fixture file. Missing fetched_at
// values default to the load time; missing hashes are derived from the link.
func LoadFixtures(path string) ([]models.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}

	return ParseFixtures(data)
}

// ParseFixtures decodes fixture YAML.
func ParseFixtures(data []byte) ([]models.Article, error) {
	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	now := time.Now().UTC()
	articles := make([]models.Article, 0, len(file.Articles))

	for i, f := range file.Articles {
		if f.ID != "" && !models.ValidID(f.ID) {
			return nil, fmt.Errorf("fixture %d: malformed id %q", i, f.ID)
		}

		a := models.Article{
			ID:          f.ID,
			Title:       f.Title,
			Link:        f.Link,
			Summary:     f.Summary,
			FullText:    f.FullText,
			ImageURL:    f.ImageURL,
			Source:      f.Source,
			Category:    f.Category,
			FetchedAt:   now,
			ArticleHash: f.ArticleHash,
		}

		if f.PublishedDt != "" {
			var d models.DateValue
			if err := d.UnmarshalJSON([]byte(quoteIfNeeded(f.PublishedDt))); err != nil {
				return nil, fmt.Errorf("fixture %d: published_dt: %w", i, err)
			}

			a.PublishedDt = d
		}

		if f.FetchedAt != "" {
			t, err := time.Parse(time.RFC3339, f.FetchedAt)
			if err != nil {
				return nil, fmt.Errorf("fixture %d: fetched_at: %w", i, err)
			}

			a.FetchedAt = t.UTC()
		}

		if a.ArticleHash == "" {
			if a.Link != "" {
				a.ArticleHash = uuid.NewSHA1(uuid.NameSpaceURL, []byte(a.Link)).String()
			} else {
				a.ArticleHash = uuid.NewString()
			}
		}

		articles = append(articles, a)
	}

	return articles, nil
}

// quoteIfNeeded lets fixtures write published_dt as an ISO string, a bare
// epoch number or an inline JSON envelope.
func quoteIfNeeded(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "{") {
		return v
	}

	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return v
	}

	return strconv.Quote(v)
}
