package services

import (
	"context"
	"strings"
	"time"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/database"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/intent"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/logger"
)

// QueryParser reads a free-form search phrase. *intent.GeminiParser
// implements it.
type QueryParser interface {
	Parse(ctx context.Context, query string) (*intent.Intent, error)
}

// EnableSmartSearch makes SmartSearch route phrases through parser. Each
// parse is bounded by timeout when it is positive.
func (s *ArticleService) EnableSmartSearch(parser QueryParser, timeout time.Duration, log *logger.Logger) {
	s.parser = parser
	s.parseTimeout = timeout
	if log != nil {
		s.log = log
	}
}

// SmartSearch interprets query with the configured parser and lists the
// matching articles. Without a parser, or when the phrase yields nothing
// usable, it behaves exactly like Search. An explicit category always
// wins over one the parser suggests.
func (s *ArticleService) SmartSearch(ctx context.Context, query, category string, page, limit int64) (*PageResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMissingQuery
	}

	if category != "" && !s.categories.Contains(category) {
		return nil, ErrInvalidCategory
	}

	if s.parser == nil {
		return s.Search(ctx, query, category, page, limit)
	}

	in, err := s.parse(ctx, query)
	if err != nil {
		s.log.Warn("query parser failed, using substring search", "error", err)
		return s.Search(ctx, query, category, page, limit)
	}

	filter, ok := s.filterFromIntent(in, category)
	if !ok {
		return s.Search(ctx, query, category, page, limit)
	}

	s.log.Debug("smart search",
		"query", query,
		"intent", in.Intent,
		"category", filter.Category,
		"source", filter.Source,
		"keywords", filter.Keywords,
	)

	return s.listPage(ctx, "smart search", filter, page, limit)
}

func (s *ArticleService) parse(ctx context.Context, query string) (*intent.Intent, error) {
	if s.parseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.parseTimeout)
		defer cancel()
	}

	return s.parser.Parse(ctx, query)
}

// filterFromIntent maps parsed entities onto a store filter. Categories
// outside the configured set are discarded; ok is false when nothing
// usable was extracted.
func (s *ArticleService) filterFromIntent(in *intent.Intent, category string) (database.ArticleFilter, bool) {
	filter := database.ArticleFilter{
		Category: category,
		Keywords: in.Values(intent.EntityKeyword),
	}

	if sources := in.Values(intent.EntitySource); len(sources) > 0 {
		filter.Source = sources[0]
	}

	suggested := false
	if filter.Category == "" {
		for _, c := range in.Values(intent.EntityCategory) {
			if label, ok := s.matchCategory(c); ok {
				filter.Category = label
				suggested = true
				break
			}
		}
	}

	ok := suggested || filter.Source != "" || len(filter.Keywords) > 0

	return filter, ok
}

func (s *ArticleService) matchCategory(value string) (string, bool) {
	if s.categories.Contains(value) {
		return value, true
	}

	for _, label := range s.categories.Labels() {
		if strings.EqualFold(label, value) {
			return label, true
		}
	}

	return "", false
}
