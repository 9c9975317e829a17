package bookmarks

import (
	"context"
	"errors"
	"strings"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/services"
)

// ArticleGetter resolves article ids. *services.ArticleService satisfies it.
type ArticleGetter interface {
	GetByID(ctx context.Context, id string) (*models.Article, error)
}

// Service validates bookmark requests against the article store.
type Service struct {
	store    Store
	articles ArticleGetter
}

func NewService(store Store, articles ArticleGetter) *Service {
	return &Service{store: store, articles: articles}
}

func validUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUser
	}

	return nil
}

// Add saves articleID for the user. The article must exist.
func (s *Service) Add(ctx context.Context, userID, articleID string) error {
	if err := validUser(userID); err != nil {
		return err
	}

	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		return err
	}

	if err := s.store.Add(ctx, userID, articleID); err != nil {
		return &services.StorageError{Op: "add bookmark", Err: err}
	}

	return nil
}

// Remove drops articleID from the user's bookmarks. Removing an article
// that no longer exists is allowed.
func (s *Service) Remove(ctx context.Context, userID, articleID string) error {
	if err := validUser(userID); err != nil {
		return err
	}

	if !models.ValidID(articleID) {
		return services.ErrInvalidID
	}

	if err := s.store.Remove(ctx, userID, articleID); err != nil {
		return &services.StorageError{Op: "remove bookmark", Err: err}
	}

	return nil
}

// List returns the saved ids, most recent first.
func (s *Service) List(ctx context.Context, userID string) ([]string, error) {
	if err := validUser(userID); err != nil {
		return nil, err
	}

	ids, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, &services.StorageError{Op: "list bookmarks", Err: err}
	}

	return ids, nil
}

// Articles resolves the saved ids into articles, skipping ids whose article
// has since disappeared.
func (s *Service) Articles(ctx context.Context, userID string) ([]models.Article, error) {
	ids, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	articles := make([]models.Article, 0, len(ids))
	for _, id := range ids {
		a, err := s.articles.GetByID(ctx, id)
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrInvalidID) {
			continue
		}

		if err != nil {
			return nil, err
		}

		articles = append(articles, *a)
	}

	return articles, nil
}
