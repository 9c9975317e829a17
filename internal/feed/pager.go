package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	// ErrStale is returned by a fetch whose result was discarded because
	// the listing was reset while it was in flight.
	ErrStale = errors.New("stale response discarded")

	// ErrBusy is returned by LoadMore while another fetch is in flight.
	ErrBusy = errors.New("a fetch is already in progress")

	// ErrNoMore is returned by LoadMore when the listing is exhausted.
	ErrNoMore = errors.New("no more articles")

	// ErrNoQuery is returned when LoadMore or Refresh is called before Reset.
	ErrNoQuery = errors.New("no query set")
)

// State is the lifecycle position of a Pager.
type State int

const (
	StateIdle State = iota
	StateLoadingInitial
	StateReady
	StateLoadingMore
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingInitial:
		return "loading"
	case StateReady:
		return "ready"
	case StateLoadingMore:
		return "loading-more"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Fetcher reads one page of a query. *Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, q Query, page int) (Page, error)
}

// Snapshot is a consistent copy of the pager's view state.
type Snapshot struct {
	Query     Query
	State     State
	Items     []View
	Page      int
	Total     int
	HasMore   bool
	IsLoading bool
	Err       error
}

// Pager accumulates a de-duplicated, normalized list over successive pages
// of one query. Every Reset bumps a generation counter; a response that
// arrives for an older generation is dropped so it cannot overwrite newer
// state. A failed fetch records the error and keeps the items already
// loaded.
type Pager struct {
	fetcher    Fetcher
	normalizer Normalizer

	mu      sync.Mutex
	gen     uint64
	query   Query
	hasQry  bool
	state   State
	items   []View
	seen    map[string]struct{}
	page    int
	total   int
	hasMore bool
	err     error
}

// NewPager creates an idle pager.
func NewPager(fetcher Fetcher, normalizer Normalizer) *Pager {
	return &Pager{
		fetcher:    fetcher,
		normalizer: normalizer,
		seen:       make(map[string]struct{}),
	}
}

// Reset discards accumulated items and loads page 1 of q.
func (p *Pager) Reset(ctx context.Context, q Query) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.query = q
	p.hasQry = true
	p.items = nil
	p.seen = make(map[string]struct{})
	p.page = 0
	p.total = 0
	p.hasMore = false
	p.err = nil
	p.state = StateLoadingInitial
	p.mu.Unlock()

	return p.fetch(ctx, gen, q, 1)
}

// Refresh reloads the current query from page 1.
func (p *Pager) Refresh(ctx context.Context) error {
	p.mu.Lock()
	q, ok := p.query, p.hasQry
	p.mu.Unlock()

	if !ok {
		return ErrNoQuery
	}

	return p.Reset(ctx, q)
}

// LoadMore appends the next page. After a failed fetch it retries the page
// that failed.
func (p *Pager) LoadMore(ctx context.Context) error {
	p.mu.Lock()

	switch {
	case !p.hasQry:
		p.mu.Unlock()
		return ErrNoQuery
	case p.state == StateLoadingInitial || p.state == StateLoadingMore:
		p.mu.Unlock()
		return ErrBusy
	case p.page > 0 && !p.hasMore:
		p.mu.Unlock()
		return ErrNoMore
	}

	gen, q, next := p.gen, p.query, p.page+1
	if p.page == 0 {
		p.state = StateLoadingInitial
	} else {
		p.state = StateLoadingMore
	}
	p.err = nil
	p.mu.Unlock()

	return p.fetch(ctx, gen, q, next)
}

func (p *Pager) fetch(ctx context.Context, gen uint64, q Query, page int) error {
	result, err := p.fetcher.Fetch(ctx, q, page)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		return ErrStale
	}

	if err != nil {
		p.state = StateError
		p.err = err
		return err
	}

	for _, v := range p.normalizer.NormalizeAll(result.Items) {
		key, ok := dedupeKey(v)
		if !ok {
			continue
		}

		if _, dup := p.seen[key]; dup {
			continue
		}

		p.seen[key] = struct{}{}
		p.items = append(p.items, v)
	}

	p.page = page
	p.total = result.Total
	p.hasMore = result.HasMore
	p.state = StateReady

	return nil
}

// dedupeKey identifies a view across pages. Records without an id or link
// fall back to title, source and publish time; a record with neither an id
// nor a title is dropped.
func dedupeKey(v View) (string, bool) {
	if v.ID != "" {
		return "id:" + v.ID, true
	}

	if v.Title == "" {
		return "", false
	}

	published := ""
	if !v.PublishedAt.IsZero() {
		published = v.PublishedAt.UTC().Format(time.RFC3339)
	}

	return strings.Join([]string{"text", strings.ToLower(v.Title), strings.ToLower(v.Source), published}, "\x00"), true
}

// Snapshot returns a copy of the current state.
func (p *Pager) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := make([]View, len(p.items))
	copy(items, p.items)

	return Snapshot{
		Query:     p.query,
		State:     p.state,
		Items:     items,
		Page:      p.page,
		Total:     p.total,
		HasMore:   p.hasMore,
		IsLoading: p.state == StateLoadingInitial || p.state == StateLoadingMore,
		Err:       p.err,
	}
}
