package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

const defaultTimeout = 15 * time.Second

// RawArticle is an article record as returned by the API, before
// normalization. Older documents carry `_id` and `image` instead of `id`
// and `image_url`.
type RawArticle struct {
	ID          string           `json:"id"`
	MongoID     string           `json:"_id"`
	Title       string           `json:"title"`
	Link        string           `json:"link"`
	Summary     string           `json:"summary"`
	FullText    *string          `json:"full_text"`
	ImageURL    string           `json:"image_url"`
	Image       string           `json:"image"`
	Source      string           `json:"source"`
	Category    string           `json:"category"`
	PublishedDt models.DateValue `json:"published_dt"`
	FetchedAt   models.DateValue `json:"fetched_at"`
}

// Key identifies the article for de-duplication.
func (a RawArticle) Key() string {
	switch {
	case a.ID != "":
		return a.ID
	case a.MongoID != "":
		return a.MongoID
	default:
		return a.Link
	}
}

// Page is one fetched page of a listing.
type Page struct {
	Items      []RawArticle
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasMore    bool
}

type pageBody struct {
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	Total      int          `json:"total"`
	TotalPages int          `json:"totalPages"`
	HasMore    *bool        `json:"hasMore"`
	Articles   []RawArticle `json:"articles"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.StatusCode)
	}

	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the article API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch reads one page of q.
func (c *Client) Fetch(ctx context.Context, q Query, page int) (Page, error) {
	var body pageBody
	if err := c.getJSON(ctx, q.Path(page), &body); err != nil {
		return Page{}, err
	}

	p := Page{
		Items:      body.Articles,
		Page:       body.Page,
		Limit:      body.Limit,
		Total:      body.Total,
		TotalPages: body.TotalPages,
	}

	if p.Page == 0 {
		p.Page = page
	}

	if p.Items == nil {
		p.Items = []RawArticle{}
	}

	if body.HasMore != nil {
		p.HasMore = *body.HasMore
	} else {
		p.HasMore = (p.Page-1)*p.Limit+len(p.Items) < p.Total
	}

	return p, nil
}

// Grouped reads the latest articles of every category.
func (c *Client) Grouped(ctx context.Context, limit int) (map[string][]RawArticle, error) {
	path := "/api/latest-by-category"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var grouped map[string][]RawArticle
	if err := c.getJSON(ctx, path, &grouped); err != nil {
		return nil, err
	}

	return grouped, nil
}

// Article reads a single article by id.
func (c *Client) Article(ctx context.Context, id string) (RawArticle, error) {
	var body struct {
		Article RawArticle `json:"article"`
	}

	if err := c.getJSON(ctx, "/api/articles/"+url.PathEscape(id), &body); err != nil {
		return RawArticle{}, err
	}

	return body.Article, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}

		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(data, &body)

		return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return nil
}
