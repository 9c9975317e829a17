package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/config"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

const connectTimeout = 10 * time.Second

// ErrNoDocument is returned by FindByID when no article has the id.
var ErrNoDocument = errors.New("article not found")

// ArticleFilter narrows a listing. Empty fields match everything.
type ArticleFilter struct {
	Category string
	// Query is a case-insensitive substring matched against title and summary.
	Query string
	// Keywords match when any one of them is a case-insensitive substring
	// of title or summary. Blank entries are ignored.
	Keywords []string
	// Source matches the publisher name exactly, ignoring case.
	Source string
}

func (f ArticleFilter) keywords() []string {
	out := make([]string, 0, len(f.Keywords))
	for _, k := range f.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}

	return out
}

// ArticleStore is implemented by every storage driver. Listings are ordered
// by fetched_at descending, ties in insertion order.
type ArticleStore interface {
	Find(ctx context.Context, filter ArticleFilter, skip, limit int64) ([]models.Article, error)
	Count(ctx context.Context, filter ArticleFilter) (int64, error)
	FindByID(ctx context.Context, id string) (*models.Article, error)
	InsertMany(ctx context.Context, articles []models.Article) (int, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ConnectMongo dials MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri, databaseName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, client.Database(databaseName), nil
}

// Open builds the article store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (ArticleStore, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, db, err := ConnectMongo(ctx, cfg.MongoURI, cfg.Database)
		if err != nil {
			return nil, err
		}

		store := NewMongoStore(client, db.Collection(cfg.Collection))
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}

		return store, nil
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case config.DriverMemory:
		store := NewMemoryStore()
		if cfg.FixturesPath != "" {
			articles, err := LoadFixtures(cfg.FixturesPath)
			if err != nil {
				return nil, err
			}

			if _, err := store.InsertMany(ctx, articles); err != nil {
				return nil, err
			}
		}

		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// NewRedis connects to Redis and pings it. It returns nil, nil when no
// address is configured.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return rdb, nil
}
