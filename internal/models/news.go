package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article is a single ingested news item as served by the query API.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link,omitempty"`
	Summary     string    `json:"summary"`
	FullText    *string   `json:"full_text"`
	ImageURL    string    `json:"image_url,omitempty"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	PublishedDt DateValue `json:"published_dt"`
	FetchedAt   time.Time `json:"fetched_at"`
	ArticleHash string    `json:"article_hash,omitempty"`
}

// ValidID reports whether id has the shape of a store identifier
// (a 24 character hex object id).
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// NewID returns a fresh identifier in the store's format.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
