package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/config"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/database"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/feed"
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "List the newest articles across all categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd.Context(), feed.Latest(limit))
	},
}

var categoryCmd = &cobra.Command{
	Use:   "category NAME",
	Short: "List the newest articles in one category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd.Context(), feed.ForCategory(args[0], limit))
	},
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search article titles and summaries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListing(cmd.Context(), feed.Search(args[0], category, limit))
	},
}

var groupedCmd = &cobra.Command{
	Use:   "grouped",
	Short: "Show the latest articles of every category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		grouped, err := newClient().Grouped(ctx, groupedLimit)
		if err != nil {
			return err
		}

		n := normalizer()
		for _, label := range categories().Labels() {
			fmt.Printf("\n== %s ==\n", label)

			views := n.NormalizeAll(grouped[label])
			if len(views) == 0 {
				fmt.Println("(no articles)")
				continue
			}

			if err := feed.WriteTable(os.Stdout, views, titleWidth); err != nil {
				return err
			}
		}

		return nil
	},
}

var articleCmd = &cobra.Command{
	Use:   "article ID",
	Short: "Show a single article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		raw, err := newClient().Article(ctx, args[0])
		if err != nil {
			return err
		}

		v := normalizer().Normalize(raw)
		fmt.Printf("%s\n\n", v.Title)
		fmt.Printf("[%s] %s | %s | %s | %s\n", v.Badge.Initial, v.Source, v.Category, v.Published, v.ReadTime)
		if v.Link != "" {
			fmt.Println(v.Link)
		}

		fmt.Printf("\n%s\n", v.Summary)
		if raw.FullText != nil {
			fmt.Printf("\n%s\n", *raw.FullText)
		}

		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Insert YAML fixture articles into the configured store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		articles, err := database.LoadFixtures(args[0])
		if err != nil {
			return err
		}

		if cfg.Store.Driver == config.DriverMemory {
			return errors.New("the memory store lives inside the server process; set STORE_DRIVER to mongo or sqlite")
		}

		ctx := cmd.Context()

		store, err := database.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		n, err := store.InsertMany(ctx, articles)
		if err != nil {
			return err
		}

		fmt.Printf("Inserted %d articles into %s store\n", n, cfg.Store.Driver)

		return nil
	},
}

func newClient() *feed.Client {
	return feed.NewClient(apiURL, feed.WithHTTPClient(&http.Client{Timeout: timeout}))
}

// runListing loads the first page of q and then pages-1 more pages.
func runListing(ctx context.Context, q feed.Query) error {
	if err := q.Validate(categories()); err != nil {
		return err
	}

	p := feed.NewPager(newClient(), normalizer())

	if err := p.Reset(ctx, q); err != nil {
		return err
	}

	for i := 1; i < pages; i++ {
		if err := p.LoadMore(ctx); err != nil {
			if errors.Is(err, feed.ErrNoMore) {
				break
			}

			// keep what was loaded and report the failure
			s := p.Snapshot()
			_ = feed.WriteTable(os.Stdout, s.Items, titleWidth)

			return fmt.Errorf("loading page %d: %w", s.Page+1, err)
		}
	}

	s := p.Snapshot()
	fmt.Printf("%s: %d of %d articles (page %d)\n\n", q, len(s.Items), s.Total, s.Page)

	return feed.WriteTable(os.Stdout, s.Items, titleWidth)
}
