package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/devfolio/internal/linkcheck"
	"github.com/jonathan/devfolio/internal/observability"
	"github.com/jonathan/devfolio/internal/server/ratelimit"
)

// inProcessBase is the origin used when crawling the in-process handler
const inProcessBase = "http://devfolio.local/"

var (
	checkContent     contentFlags
	checkURL         string
	checkDepth       int
	checkMaxPages    int
	checkConcurrency int
	checkAssets      bool
	checkJSON        bool
)

var checkLinksCmd = &cobra.Command{
	Use:   "check-links",
	Short: "Crawl the site and report broken links",
	Long:  "Crawls every in-site link starting from the home page and reports targets that do not answer 2xx. Without --url the site is served in-process from the configured content.",
	RunE:  runCheckLinks,
}

func init() {
	checkContent.register(checkLinksCmd)
	checkLinksCmd.Flags().StringVar(&checkURL, "url", "", "Check a running site at this base URL instead of serving in-process")
	checkLinksCmd.Flags().IntVar(&checkDepth, "depth", linkcheck.DefaultMaxDepth, "Link distance from the home page that is still followed")
	checkLinksCmd.Flags().IntVar(&checkMaxPages, "max-pages", linkcheck.DefaultMaxPages, "Maximum number of URLs to fetch")
	checkLinksCmd.Flags().IntVar(&checkConcurrency, "concurrency", linkcheck.DefaultConcurrency, "Fetches in flight at once")
	checkLinksCmd.Flags().BoolVar(&checkAssets, "check-assets", false, "Also check images, stylesheets and scripts (the assets directory itself is set with --assets)")
	checkLinksCmd.Flags().BoolVar(&checkJSON, "json", false, "Print the full report as JSON")
	rootCmd.AddCommand(checkLinksCmd)
}

func runCheckLinks(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	opts := linkcheck.Options{
		Concurrency: checkConcurrency,
		MaxDepth:    checkDepth,
		MaxPages:    checkMaxPages,
		Assets:      checkAssets,
	}

	var (
		report *linkcheck.Report
		err    error
	)
	if checkURL != "" {
		report, err = linkcheck.Crawl(ctx, linkcheck.ClientFetcher{}, checkURL, opts)
	} else {
		cfg, loadErr := loadSettings(checkContent)
		if loadErr != nil {
			return loadErr
		}
		srv, _, buildErr := buildServer(ctx, cfg, &ratelimit.Config{Enabled: false})
		if buildErr != nil {
			return buildErr
		}
		report, err = linkcheck.Check(ctx, srv.Handler(), inProcessBase, opts)
	}
	if err != nil {
		return err
	}

	if checkJSON {
		jsonBytes, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	} else {
		observability.NewPrinter(cmd.OutOrStdout()).PrintLinkReport(report)
	}

	if broken := report.Broken(); len(broken) > 0 {
		return fmt.Errorf("%d broken links", len(broken))
	}
	return nil
}
