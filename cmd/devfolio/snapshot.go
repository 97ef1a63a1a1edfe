package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/devfolio/internal/observability"
	"github.com/jonathan/devfolio/internal/server/ratelimit"
	"github.com/jonathan/devfolio/internal/snapshot"
)

var (
	snapshotContent contentFlags
	snapshotOut     string
	snapshotURL     string
	snapshotRoutes  []string
	snapshotOpts    = snapshot.DefaultOptions()
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save full-page screenshots of every route",
	Long:  "Renders each route in headless Chrome and writes a PNG per route. Without --url the site is served on a loopback port from the configured content. Requires Chrome or Chromium.",
	RunE:  runSnapshot,
}

func init() {
	snapshotContent.register(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "snapshots", "Directory to write screenshots to")
	snapshotCmd.Flags().StringVar(&snapshotURL, "url", "", "Capture a running site at this base URL instead of serving locally")
	snapshotCmd.Flags().StringSliceVar(&snapshotRoutes, "route", nil, "Route to capture (repeatable, default: every page)")
	snapshotCmd.Flags().IntVar(&snapshotOpts.Width, "width", snapshotOpts.Width, "Viewport width")
	snapshotCmd.Flags().IntVar(&snapshotOpts.Height, "height", snapshotOpts.Height, "Viewport height")
	snapshotCmd.Flags().DurationVar(&snapshotOpts.Settle, "settle", snapshotOpts.Settle, "Wait after load before capturing")
	snapshotCmd.Flags().DurationVar(&snapshotOpts.Timeout, "timeout", snapshotOpts.Timeout, "Per-route timeout")
	snapshotCmd.Flags().IntVar(&snapshotOpts.Concurrency, "concurrency", snapshotOpts.Concurrency, "Tabs open at once")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	opts := snapshotOpts
	opts.Verbose = verbose

	var shots []snapshot.Shot
	if snapshotURL != "" {
		routes := snapshotRoutes
		if len(routes) == 0 {
			routes = []string{"/", "/about", "/projects"}
		}
		var err error
		shots, err = snapshot.Capture(ctx, snapshotURL, routes, snapshotOut, opts)
		if err != nil {
			return err
		}
	} else {
		cfg, err := loadSettings(snapshotContent)
		if err != nil {
			return err
		}
		srv, store, err := buildServer(ctx, cfg, &ratelimit.Config{Enabled: false})
		if err != nil {
			return err
		}

		routes := snapshotRoutes
		if len(routes) == 0 {
			routes = snapshot.DefaultRoutes(store)
		}
		shots, err = snapshot.ServeAndCapture(ctx, srv, routes, snapshotOut, opts)
		if err != nil {
			return err
		}
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintSnapshots(shots)
	return nil
}
