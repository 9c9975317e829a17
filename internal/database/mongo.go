package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

// articleDocument is the stored shape of an article. Every field may be
// missing or null in documents written by the ingester.
type articleDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Link        string             `bson:"link,omitempty"`
	Summary     string             `bson:"summary"`
	FullText    *string            `bson:"full_text,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty"`
	Source      string             `bson:"source"`
	Category    string             `bson:"category"`
	PublishedDt models.DateValue   `bson:"published_dt"`
	FetchedAt   time.Time          `bson:"fetched_at"`
	ArticleHash string             `bson:"article_hash,omitempty"`
}

func (d articleDocument) toModel() models.Article {
	return models.Article{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Link:        d.Link,
		Summary:     d.Summary,
		FullText:    d.FullText,
		ImageURL:    d.ImageURL,
		Source:      d.Source,
		Category:    d.Category,
		PublishedDt: d.PublishedDt,
		FetchedAt:   d.FetchedAt,
		ArticleHash: d.ArticleHash,
	}
}

func documentFromModel(a models.Article) (articleDocument, error) {
	id := primitive.NewObjectID()
	if a.ID != "" {
		parsed, err := primitive.ObjectIDFromHex(a.ID)
		if err != nil {
			return articleDocument{}, fmt.Errorf("article id %q: %w", a.ID, err)
		}

		id = parsed
	}

	fetched := a.FetchedAt
	if fetched.IsZero() {
		fetched = time.Now()
	}

	return articleDocument{
		ID:          id,
		Title:       a.Title,
		Link:        a.Link,
		Summary:     a.Summary,
		FullText:    a.FullText,
		ImageURL:    a.ImageURL,
		Source:      a.Source,
		Category:    a.Category,
		PublishedDt: a.PublishedDt,
		FetchedAt:   fetched.UTC(),
		ArticleHash: a.ArticleHash,
	}, nil
}

// MongoStore reads articles from a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore wraps an already connected collection.
func NewMongoStore(client *mongo.Client, collection *mongo.Collection) *MongoStore {
	return &MongoStore{client: client, collection: collection}
}

// newest first; _id ascending keeps equal fetched_at in insertion order
var mongoSort = bson.D{{Key: "fetched_at", Value: -1}, {Key: "_id", Value: 1}}

func textRegex(s string) bson.A {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
	return bson.A{
		bson.M{"title": pattern},
		bson.M{"summary": pattern},
	}
}

func mongoFilter(f ArticleFilter) bson.M {
	filter := bson.M{}

	if f.Category != "" {
		filter["category"] = f.Category
	}

	if f.Source != "" {
		filter["source"] = primitive.Regex{Pattern: `^\s*` + regexp.QuoteMeta(strings.TrimSpace(f.Source)) + `\s*$`, Options: "i"}
	}

	var and bson.A

	if f.Query != "" {
		and = append(and, bson.M{"$or": textRegex(f.Query)})
	}

	if keywords := f.keywords(); len(keywords) > 0 {
		var or bson.A
		for _, k := range keywords {
			or = append(or, textRegex(k)...)
		}

		and = append(and, bson.M{"$or": or})
	}

	if len(and) > 0 {
		filter["$and"] = and
	}

	return filter
}

// EnsureIndexes creates the indexes the listing queries rely on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "fetched_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "fetched_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create article indexes: %w", err)
	}

	return nil
}

func (s *MongoStore) Find(ctx context.Context, filter ArticleFilter, skip, limit int64) ([]models.Article, error) {
	if skip < 0 {
		skip = 0
	}

	findOptions := options.Find().
		SetSort(mongoSort).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, mongoFilter(filter), findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find articles: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []articleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode articles: %w", err)
	}

	articles := make([]models.Article, 0, len(docs))
	for _, doc := range docs {
		articles = append(articles, doc.toModel())
	}

	return articles, nil
}

func (s *MongoStore) Count(ctx context.Context, filter ArticleFilter) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, mongoFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return n, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Article, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNoDocument
	}

	var doc articleDocument
	if err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}

		return nil, fmt.Errorf("failed to find article %s: %w", id, err)
	}

	article := doc.toModel()

	return &article, nil
}

func (s *MongoStore) InsertMany(ctx context.Context, articles []models.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(articles))
	for _, a := range articles {
		doc, err := documentFromModel(a)
		if err != nil {
			return 0, err
		}

		docs = append(docs, doc)
	}

	res, err := s.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert articles: %w", err)
	}

	return len(res.InsertedIDs), nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
