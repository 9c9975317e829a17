package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/bookmarks"
	bookmarkHandlers "github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/bookmarks/handlers"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/config"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/database"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/handlers"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/intent"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/logger"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/routes"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/services"
)

// redisPinger adapts a redis client to handlers.Pinger.
type redisPinger struct {
	rdb *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger("info").Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)
	log.Info("starting news api", "config", cfg.String())

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn("failed to close store", "error", err)
		}
	}()

	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	categories := cfg.CategorySet()
	articles := services.NewArticleService(store, categories, int64(cfg.Feed.MaxLimit))

	if cfg.Search.SmartSearch() {
		parser, err := intent.NewGeminiParser(ctx, cfg.Search.GeminiAPIKey, cfg.Search.GeminiModel, categories)
		if err != nil {
			return err
		}
		defer parser.Close()

		articles.EnableSmartSearch(parser, cfg.Search.ParseTimeout, log.With("component", "smart-search"))
		log.Info("smart search enabled", "model", cfg.Search.GeminiModel)
	}

	var (
		statsCache    services.StatsCache
		bookmarkStore bookmarks.Store = bookmarks.NewMemoryStore()
		redisHealth   handlers.Pinger
	)

	if rdb != nil {
		defer rdb.Close()

		statsCache = rdb
		bookmarkStore = bookmarks.NewRedisStore(rdb)
		redisHealth = redisPinger{rdb: rdb}
	} else {
		log.Warn("REDIS_ADDR not set, bookmarks are kept in memory and category stats are not cached")
	}

	stats := services.NewCategoryStatsService(store, statsCache, categories, cfg.Jobs.StatsTTL, log.With("component", "stats"))

	// Initialize and start cron scheduler
	c := cron.New()
	if _, err := c.AddFunc(cfg.Jobs.StatsSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.QueryTimeout)
		defer cancel()

		if err := stats.Refresh(jobCtx); err != nil {
			log.Error("category stats refresh failed", "error", err)
			return
		}

		log.Debug("category stats refreshed")
	}); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.SetupRoutes(r, routes.Handlers{
		Articles:  handlers.NewArticleHandler(articles, stats, cfg.Feed, cfg.Server.QueryTimeout, log),
		Bookmarks: bookmarkHandlers.NewBookmarkHandler(bookmarks.NewService(bookmarkStore, articles), log),
		Health:    handlers.NewHealthHandler(store, redisHealth, log),
	}, cfg.Feed, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "driver", cfg.Store.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
		log.Info("captured termination signal, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
