// Package bookmarks keeps the per-user list of saved article ids.
package bookmarks

import (
	"context"
	"errors"
)

// ErrMissingUser is returned when a request carries no user id.
var ErrMissingUser = errors.New("user id is required")

// Store persists bookmarks. List returns ids most recently saved first.
// Adding an id that is already saved keeps its original position.
type Store interface {
	Add(ctx context.Context, userID, articleID string) error
	Remove(ctx context.Context, userID, articleID string) error
	List(ctx context.Context, userID string) ([]string, error)
	Contains(ctx context.Context, userID, articleID string) (bool, error)
}
