package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// scriptedFetcher serves pages from a fixed list per query and can fail or
// block on demand.
type scriptedFetcher struct {
	mu      sync.Mutex
	pages   map[string][]Page
	fail    map[int]error
	calls   int
	blockOn string
	started chan struct{}
	release chan struct{}
}

func (f *scriptedFetcher) Fetch(ctx context.Context, q Query, page int) (Page, error) {
	f.mu.Lock()
	f.calls++
	err := f.fail[f.calls]
	block := f.blockOn != "" && f.blockOn == q.String()
	pages := f.pages[q.String()]
	f.mu.Unlock()

	if block {
		close(f.started)
		<-f.release
	}

	if err != nil {
		return Page{}, err
	}

	if page > len(pages) {
		return Page{Page: page, Items: []RawArticle{}}, nil
	}

	return pages[page-1], nil
}

func articles(prefix string, ids ...int) []RawArticle {
	out := make([]RawArticle, 0, len(ids))
	for _, id := range ids {
		out = append(out, RawArticle{ID: fmt.Sprintf("%s-%d", prefix, id), Title: fmt.Sprintf("%s %d", prefix, id)})
	}

	return out
}

func ids(views []View) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}

	return out
}

func TestPager_LoadMoreAppendsWithoutDuplicates(t *testing.T) {
	q := ForCategory("Technology", 3)
	f := &scriptedFetcher{pages: map[string][]Page{
		q.String(): {
			{Page: 1, Items: articles("t", 1, 2, 3), Total: 7, HasMore: true},
			// an article inserted upstream shifts t-3 onto page 2
			{Page: 2, Items: articles("t", 3, 4, 5), Total: 8, HasMore: true},
			{Page: 3, Items: articles("t", 6, 7), Total: 8, HasMore: false},
		},
	}}

	p := NewPager(f, Normalizer{})
	ctx := context.Background()

	if s := p.Snapshot(); s.State != StateIdle {
		t.Fatalf("initial state = %s", s.State)
	}

	if err := p.Reset(ctx, q); err != nil {
		t.Fatalf("Reset error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := p.LoadMore(ctx); err != nil {
			t.Fatalf("LoadMore %d error: %v", i, err)
		}
	}

	s := p.Snapshot()
	want := []string{"t-1", "t-2", "t-3", "t-4", "t-5", "t-6", "t-7"}
	got := ids(s.Items)

	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("items = %v, want %v", got, want)
	}

	if s.State != StateReady || s.HasMore || s.Page != 3 || s.IsLoading {
		t.Errorf("snapshot = %+v", s)
	}

	if err := p.LoadMore(ctx); !errors.Is(err, ErrNoMore) {
		t.Errorf("LoadMore past the end = %v, want ErrNoMore", err)
	}
}

func TestPager_DedupesRecordsWithoutIDs(t *testing.T) {
	q := Latest(3)
	f := &scriptedFetcher{pages: map[string][]Page{
		q.String(): {
			{Page: 1, Items: []RawArticle{
				{Title: "Rupee slides", Source: "Mint"},
				{Title: "Rupee slides", Source: "News18"},
				{Source: "Mint", Summary: "no title and no id"},
			}, Total: 5, HasMore: true},
			{Page: 2, Items: []RawArticle{
				{Title: " rupee SLIDES ", Source: "mint"},
				{Title: "Markets close higher", Source: "Mint"},
			}, Total: 5, HasMore: false},
		},
	}}

	p := NewPager(f, Normalizer{})
	ctx := context.Background()

	if err := p.Reset(ctx, q); err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore error: %v", err)
	}

	var got []string
	for _, v := range p.Snapshot().Items {
		got = append(got, v.Title+"/"+v.Source)
	}

	want := []string{"Rupee slides/Mint", "Rupee slides/News18", "Markets close higher/Mint"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("items = %v, want %v", got, want)
	}
}

func TestPager_FailureKeepsItems(t *testing.T) {
	q := Latest(2)
	boom := errors.New("connection refused")
	f := &scriptedFetcher{
		pages: map[string][]Page{
			q.String(): {
				{Page: 1, Items: articles("l", 1, 2), Total: 4, HasMore: true},
				{Page: 2, Items: articles("l", 3, 4), Total: 4, HasMore: false},
			},
		},
		fail: map[int]error{2: boom},
	}

	p := NewPager(f, Normalizer{})
	ctx := context.Background()

	if err := p.Reset(ctx, q); err != nil {
		t.Fatalf("Reset error: %v", err)
	}

	if err := p.LoadMore(ctx); !errors.Is(err, boom) {
		t.Fatalf("LoadMore error = %v, want %v", err, boom)
	}

	s := p.Snapshot()
	if s.State != StateError || !errors.Is(s.Err, boom) {
		t.Errorf("state = %s err = %v", s.State, s.Err)
	}

	if len(s.Items) != 2 || !s.HasMore || s.Page != 1 {
		t.Errorf("failed fetch changed accumulated state: %+v", s)
	}

	// retry re-enters loading and fetches the page that failed
	if err := p.LoadMore(ctx); err != nil {
		t.Fatalf("retry error: %v", err)
	}

	s = p.Snapshot()
	if len(s.Items) != 4 || s.Err != nil || s.State != StateReady {
		t.Errorf("after retry: %+v", s)
	}
}

func TestPager_InitialFailureThenRefresh(t *testing.T) {
	q := Latest(2)
	f := &scriptedFetcher{
		pages: map[string][]Page{q.String(): {{Page: 1, Items: articles("l", 1), Total: 1}}},
		fail:  map[int]error{1: errors.New("timeout")},
	}

	p := NewPager(f, Normalizer{})
	ctx := context.Background()

	if err := p.Refresh(ctx); !errors.Is(err, ErrNoQuery) {
		t.Errorf("Refresh before Reset = %v, want ErrNoQuery", err)
	}

	if err := p.Reset(ctx, q); err == nil {
		t.Fatal("expected initial failure")
	}

	if s := p.Snapshot(); s.State != StateError || len(s.Items) != 0 {
		t.Errorf("snapshot = %+v", s)
	}

	if err := p.Refresh(ctx); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	if s := p.Snapshot(); s.State != StateReady || len(s.Items) != 1 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestPager_RefreshReplacesItems(t *testing.T) {
	q := ForCategory("Sports", 2)
	f := &scriptedFetcher{pages: map[string][]Page{
		q.String(): {
			{Page: 1, Items: articles("s", 1, 2), Total: 4, HasMore: true},
			{Page: 2, Items: articles("s", 3, 4), Total: 4, HasMore: false},
		},
	}}

	p := NewPager(f, Normalizer{})
	ctx := context.Background()

	_ = p.Reset(ctx, q)
	_ = p.LoadMore(ctx)

	if err := p.Refresh(ctx); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	s := p.Snapshot()
	if got := ids(s.Items); fmt.Sprint(got) != "[s-1 s-2]" || s.Page != 1 || !s.HasMore {
		t.Errorf("after refresh: items=%v page=%d hasMore=%v", got, s.Page, s.HasMore)
	}
}

func TestPager_StaleResponseDiscarded(t *testing.T) {
	qa := ForCategory("Finance", 2)
	qb := ForCategory("Aviation", 2)

	f := &scriptedFetcher{
		pages: map[string][]Page{
			qa.String(): {{Page: 1, Items: articles("a", 1, 2), Total: 2}},
			qb.String(): {{Page: 1, Items: articles("b", 1), Total: 1}},
		},
		blockOn: qa.String(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	p := NewPager(f, Normalizer{})
	ctx := context.Background()

	errA := make(chan error, 1)
	go func() {
		errA <- p.Reset(ctx, qa)
	}()

	<-f.started

	if err := p.LoadMore(ctx); !errors.Is(err, ErrBusy) {
		t.Errorf("LoadMore during initial load = %v, want ErrBusy", err)
	}

	if err := p.Reset(ctx, qb); err != nil {
		t.Fatalf("Reset B error: %v", err)
	}

	close(f.release)

	if err := <-errA; !errors.Is(err, ErrStale) {
		t.Errorf("fetch A = %v, want ErrStale", err)
	}

	s := p.Snapshot()
	if got := ids(s.Items); fmt.Sprint(got) != "[b-1]" {
		t.Errorf("items = %v, want B's result only", got)
	}

	if s.Query != qb || s.State != StateReady {
		t.Errorf("snapshot = %+v", s)
	}
}
