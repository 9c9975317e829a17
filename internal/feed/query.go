// Package feed consumes the article API: it builds requests, normalizes
// the returned records and drives incremental "load more" listings.
package feed

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

// Kind selects which listing a Query reads.
type Kind int

const (
	KindLatest Kind = iota
	KindCategory
	KindSearch
)

func (k Kind) String() string {
	switch k {
	case KindLatest:
		return "latest"
	case KindCategory:
		return "category"
	case KindSearch:
		return "search"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Query describes one paged listing. It is the only place request paths
// and query strings are built.
type Query struct {
	Kind     Kind
	Category string
	Text     string
	Limit    int
}

// Latest lists every category, newest first.
func Latest(limit int) Query {
	return Query{Kind: KindLatest, Limit: limit}
}

// ForCategory lists a single category.
func ForCategory(category string, limit int) Query {
	return Query{Kind: KindCategory, Category: category, Limit: limit}
}

// Search matches text against title and summary, optionally in one category.
func Search(text, category string, limit int) Query {
	return Query{Kind: KindSearch, Text: strings.TrimSpace(text), Category: category, Limit: limit}
}

// Validate checks the query against the category set before any request
// is made.
func (q Query) Validate(categories models.CategorySet) error {
	switch q.Kind {
	case KindLatest:
	case KindCategory:
		if q.Category == "" {
			return fmt.Errorf("category query without a category")
		}

		if !categories.Contains(q.Category) {
			return fmt.Errorf("unknown category %q", q.Category)
		}
	case KindSearch:
		if q.Text == "" {
			return fmt.Errorf("search query without text")
		}

		if q.Category != "" && !categories.Contains(q.Category) {
			return fmt.Errorf("unknown category %q", q.Category)
		}
	default:
		return fmt.Errorf("unknown query kind %s", q.Kind)
	}

	if q.Limit < 0 {
		return fmt.Errorf("negative limit %d", q.Limit)
	}

	return nil
}

// Path returns the request path and query string for page (1-based).
func (q Query) Path(page int) string {
	if page < 1 {
		page = 1
	}

	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	var path string
	switch q.Kind {
	case KindCategory:
		path = "/api/articles"
		values.Set("category", q.Category)
	case KindSearch:
		path = "/api/articles/search"
		values.Set("q", q.Text)
		if q.Category != "" {
			values.Set("category", q.Category)
		}
	default:
		path = "/api/articles2/latest"
	}

	return path + "?" + values.Encode()
}

func (q Query) String() string {
	switch q.Kind {
	case KindCategory:
		return "category " + q.Category
	case KindSearch:
		if q.Category != "" {
			return fmt.Sprintf("search %q in %s", q.Text, q.Category)
		}

		return fmt.Sprintf("search %q", q.Text)
	default:
		return "latest"
	}
}
