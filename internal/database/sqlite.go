package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

// articleRow is the relational shape of an article. Seq records insertion
// order for tie-breaking equal fetched_at values.
type articleRow struct {
	Seq           uint   `gorm:"primaryKey;autoIncrement"`
	ArticleID     string `gorm:"size:24;uniqueIndex"`
	Title         string
	Link          string
	Summary       string
	FullText      *string
	ImageURL      string
	Source        string
	Category      string `gorm:"index:idx_articles_category_fetched,priority:1"`
	PublishedAt   *time.Time
	PublishedKind uint8
	FetchedAt     time.Time `gorm:"index;index:idx_articles_category_fetched,priority:2"`
	ArticleHash   string
}

func (articleRow) TableName() string {
	return "articles"
}

func rowFromModel(a models.Article) articleRow {
	row := articleRow{
		ArticleID:   a.ID,
		Title:       a.Title,
		Link:        a.Link,
		Summary:     a.Summary,
		FullText:    a.FullText,
		ImageURL:    a.ImageURL,
		Source:      a.Source,
		Category:    a.Category,
		FetchedAt:   a.FetchedAt.UTC(),
		ArticleHash: a.ArticleHash,
	}

	if at, ok := a.PublishedDt.Time(); ok {
		at = at.UTC()
		row.PublishedAt = &at
		row.PublishedKind = uint8(a.PublishedDt.Kind)
	}

	return row
}

func (r articleRow) toModel() models.Article {
	a := models.Article{
		ID:          r.ArticleID,
		Title:       r.Title,
		Link:        r.Link,
		Summary:     r.Summary,
		FullText:    r.FullText,
		ImageURL:    r.ImageURL,
		Source:      r.Source,
		Category:    r.Category,
		FetchedAt:   r.FetchedAt.UTC(),
		ArticleHash: r.ArticleHash,
	}

	if r.PublishedAt != nil {
		a.PublishedDt = models.DateValue{Kind: models.DateKind(r.PublishedKind), At: r.PublishedAt.UTC()}
	}

	return a
}

// SQLiteStore keeps articles in a local SQLite file through gorm. It is
// meant for development and demos without a MongoDB deployment.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&articleRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const textLike = `(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(summary) LIKE ? ESCAPE '\')`

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (f ArticleFilter) scope(tx *gorm.DB) *gorm.DB {
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}

	if f.Source != "" {
		tx = tx.Where("LOWER(TRIM(source)) = ?", strings.ToLower(strings.TrimSpace(f.Source)))
	}

	if f.Query != "" {
		pattern := likePattern(f.Query)
		tx = tx.Where(textLike, pattern, pattern)
	}

	if keywords := f.keywords(); len(keywords) > 0 {
		clauses := make([]string, 0, len(keywords))
		args := make([]interface{}, 0, 2*len(keywords))
		for _, k := range keywords {
			pattern := likePattern(k)
			clauses = append(clauses, textLike)
			args = append(args, pattern, pattern)
		}

		tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	return tx
}

func (s *SQLiteStore) Find(ctx context.Context, filter ArticleFilter, skip, limit int64) ([]models.Article, error) {
	if skip < 0 {
		skip = 0
	}

	var rows []articleRow

	err := s.db.WithContext(ctx).
		Model(&articleRow{}).
		Scopes(filter.scope).
		Order("fetched_at DESC").
		Order("seq ASC").
		Offset(int(skip)).
		Limit(int(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find articles: %w", err)
	}

	articles := make([]models.Article, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, row.toModel())
	}

	return articles, nil
}

func (s *SQLiteStore) Count(ctx context.Context, filter ArticleFilter) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&articleRow{}).Scopes(filter.scope).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return n, nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, id string) (*models.Article, error) {
	var row articleRow
	if err := s.db.WithContext(ctx).Where("article_id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDocument
		}

		return nil, fmt.Errorf("failed to find article %s: %w", id, err)
	}

	article := row.toModel()

	return &article, nil
}

func (s *SQLiteStore) InsertMany(ctx context.Context, articles []models.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	rows := make([]articleRow, 0, len(articles))
	for _, a := range articles {
		if a.ID == "" {
			a.ID = models.NewID()
		}

		if a.FetchedAt.IsZero() {
			a.FetchedAt = time.Now()
		}

		rows = append(rows, rowFromModel(a))
	}

	if err := s.db.WithContext(ctx).CreateInBatches(rows, 100).Error; err != nil {
		return 0, fmt.Errorf("failed to insert articles: %w", err)
	}

	return len(rows), nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
