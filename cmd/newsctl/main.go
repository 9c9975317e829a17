package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/config"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/feed"
	"github.com/Kamal-dev-1999/TejBharatNetwork-full-site-copy/internal/models"
)

var (
	apiURL       string
	limit        int
	groupedLimit int
	pages        int
	category     string
	titleWidth   int
	location     string
	timeout      time.Duration

	cfg         *config.Config
	displayZone *time.Location
)

var rootCmd = &cobra.Command{
	Use:               "newsctl",
	Short:             "Browse and seed the news article API",
	Long:              `newsctl reads article listings from a running API server and seeds article stores from YAML fixtures.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	defaultAPI := os.Getenv("NEWSHUB_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:4000"
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "Base URL of the article API")
	rootCmd.PersistentFlags().IntVar(&titleWidth, "width", feed.DefaultTitleWidth, "Maximum title width in cells")
	rootCmd.PersistentFlags().StringVar(&location, "tz", "", "Time zone for displayed dates (default from config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Second, "Request timeout")

	for _, cmd := range []*cobra.Command{latestCmd, categoryCmd, searchCmd} {
		cmd.Flags().IntVar(&limit, "limit", 10, "Articles per page")
		cmd.Flags().IntVar(&pages, "pages", 1, "Number of pages to load")
	}

	searchCmd.Flags().StringVar(&category, "category", "", "Restrict the search to one category")
	groupedCmd.Flags().IntVar(&groupedLimit, "limit", 4, "Articles per category")

	rootCmd.AddCommand(latestCmd, categoryCmd, searchCmd, groupedCmd, articleCmd, seedCmd)
}

// loadConfig reads the shared configuration once per invocation. It backs
// the category set, the display zone and the seed target.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zone := loaded.Location()
	if location != "" {
		zone, err = time.LoadLocation(location)
		if err != nil {
			return fmt.Errorf("invalid --tz %q: %w", location, err)
		}
	}

	cfg, displayZone = loaded, zone
	return nil
}

func categories() models.CategorySet {
	return cfg.CategorySet()
}

func normalizer() feed.Normalizer {
	return feed.Normalizer{Location: displayZone}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
